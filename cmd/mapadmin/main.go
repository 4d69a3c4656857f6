// Command mapadmin runs the administration backend of the map platform.
//
// Usage:
//
//	mapadmin migrate                  # create or update the database schema
//	mapadmin serve                    # run the HTTP API
//	mapadmin reset-password <user-id> # mail a new password to a user
//	mapadmin version
//
// Configuration is read from the file given with --config and from
// MAPADMIN_* environment variables, e.g. MAPADMIN_DATABASE_DSN.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

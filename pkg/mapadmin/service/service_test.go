package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/config"
	"github.com/mikepea/mapadmin/pkg/mapadmin/mail"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

// recordingSender keeps every message instead of delivering it
type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

type fixture struct {
	st     *store.Store
	svc    *Service
	sender *recordingSender
	group  *models.Group
	admin  *auth.Principal
	super  *auth.Principal
	mods   []models.Module
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.AutoMigrate(db))

	st := store.New(db)
	ctx := context.Background()

	require.NoError(t, st.Create(ctx, &models.MapConfig{Name: "default"}))
	require.NoError(t, st.Create(ctx, &models.WmsProxyConfig{Name: "default"}))
	require.NoError(t, st.Create(ctx, &models.WfsProxyConfig{Name: "default"}))
	mods := []models.Module{{Name: "measure"}, {Name: "print"}, {Name: "search"}}
	for i := range mods {
		require.NoError(t, st.Create(ctx, &mods[i]))
	}

	group, err := st.CreateGroup(ctx, &models.Group{Number: "100", Name: "Survey", Mail: "survey@example.com"})
	require.NoError(t, err)

	adminUser, err := st.CreateUser(ctx, &models.User{Name: "admin", Email: "admin@example.com", Active: true}, models.RoleAdmin, []uint{group.ID})
	require.NoError(t, err)
	superUser, err := st.CreateUser(ctx, &models.User{Name: "root", Email: "root@example.com", Active: true}, models.RoleSuperAdmin, nil)
	require.NoError(t, err)

	admin, err := st.LoadPrincipal(ctx, adminUser.ID)
	require.NoError(t, err)
	super, err := st.LoadPrincipal(ctx, superUser.ID)
	require.NoError(t, err)

	sender := &recordingSender{}
	defaults := config.DefaultsConfig{MapConfigID: 1, WmsProxyConfigID: 1, WfsProxyConfigID: 1, PasswordLength: 8}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		st:     st,
		svc:    New(st, sender, defaults, "GeoPortal", logger),
		sender: sender,
		group:  group,
		admin:  admin,
		super:  super,
		mods:   mods,
	}
}

func (f *fixture) mustCreate(t *testing.T, p *auth.Principal, in UserInput) models.User {
	t.Helper()
	users, err := f.svc.CreateUsers(context.Background(), p, []UserInput{in})
	require.NoError(t, err)
	require.Len(t, users, 1)
	return users[0]
}

func TestParseModuleList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []uint
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"single", "3", []uint{3}, false},
		{"whitespace and blanks", " 1, 2 ,,", []uint{1, 2}, false},
		{"duplicates", "2,1,2", []uint{2, 1}, false},
		{"not a number", "1,abc", nil, true},
		{"zero", "0", nil, true},
		{"negative", "-1", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseModuleList(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateUsersAppliesDefaultsAndMailsPassword(t *testing.T) {
	f := setup(t)
	u := f.mustCreate(t, f.admin, UserInput{
		Name:       "jdoe",
		Email:      "jdoe@example.com",
		City:       "Bonn",
		ModuleList: " 1, 2,,1",
	})

	assert.Equal(t, "Bonn", u.City)
	assert.Equal(t, "admin", u.AppUser)
	assert.True(t, u.Active)
	assert.True(t, u.HasRole(models.RoleUser))
	require.NotNil(t, u.MapConfigID)
	require.NotNil(t, u.WmsProxyConfigID)
	require.NotNil(t, u.WfsProxyConfigID)
	assert.Equal(t, uint(1), *u.MapConfigID)
	assert.Len(t, u.Modules, 2)
	assert.Equal(t, []uint{f.group.ID}, u.GroupIDs())

	require.Len(t, f.sender.sent, 1)
	msg := f.sender.sent[0]
	assert.Equal(t, "jdoe@example.com", msg.To)
	assert.Equal(t, "Registration at GeoPortal", msg.Subject)

	stored, err := f.st.UserByName(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.True(t, passwordInBody(msg.Body, stored.PasswordHash), "mailed password must match the stored hash")
}

// passwordInBody finds the line of body that verifies against hash
func passwordInBody(body, hash string) bool {
	for _, line := range strings.Split(body, "\n") {
		if line != "" && auth.CheckPassword(line, hash) {
			return true
		}
	}
	return false
}

func TestCreateUsersBySuperadminJoinsNoGroup(t *testing.T) {
	f := setup(t)
	u := f.mustCreate(t, f.super, UserInput{Name: "free", Email: "free@example.com"})
	assert.Empty(t, u.GroupIDs())
}

func TestCreateUsersInactive(t *testing.T) {
	f := setup(t)
	inactive := false
	u := f.mustCreate(t, f.admin, UserInput{Name: "dormant", Email: "dormant@example.com", Active: &inactive})
	assert.False(t, u.Active)

	stored, err := f.st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	_, err = f.st.LoadPrincipal(context.Background(), u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUsersSkipsMissingDefault(t *testing.T) {
	f := setup(t)
	f.svc.defaults.WfsProxyConfigID = 42

	u := f.mustCreate(t, f.admin, UserInput{Name: "jdoe", Email: "jdoe@example.com"})
	assert.Nil(t, u.WfsProxyConfigID)
	assert.NotNil(t, u.MapConfigID)
}

func TestCreateUsersRejectsUnknownConfig(t *testing.T) {
	f := setup(t)
	missing := uint(77)
	_, err := f.svc.CreateUsers(context.Background(), f.admin, []UserInput{{Name: "jdoe", Email: "jdoe@example.com", MapConfigID: &missing}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateUsersDuplicateName(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateUsers(context.Background(), f.admin, []UserInput{{Name: "admin", Email: "x@example.com"}})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, f.sender.sent)
}

func TestCreateUsersIsAtomic(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateUsers(context.Background(), f.admin, []UserInput{
		{Name: "first", Email: "first@example.com"},
		{Name: "first", Email: "again@example.com"},
	})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.st.UserByName(context.Background(), "first")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, f.sender.sent)
}

func TestCreateUsersModuleListErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CreateUsers(ctx, f.admin, []UserInput{{Name: "a", Email: "a@example.com", ModuleList: "1,x"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateUsers(ctx, f.admin, []UserInput{{Name: "b", Email: "b@example.com", ModuleList: "99"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateUsersRequiresAdmin(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateUsers(context.Background(), &auth.Principal{UserID: 99, Roles: []string{models.RoleUser}}, []UserInput{{Name: "a", Email: "a@example.com"}})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.CreateUsers(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateUsersMailFailureRollsBack(t *testing.T) {
	f := setup(t)
	f.sender.err = errors.New("relay refused")

	_, err := f.svc.CreateUsers(context.Background(), f.admin, []UserInput{{Name: "jdoe", Email: "jdoe@example.com"}})
	assert.ErrorIs(t, err, ErrMailDelivery)

	_, err = f.st.UserByName(context.Background(), "jdoe")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateUsersKeepsUnsetFields(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	created := f.mustCreate(t, f.admin, UserInput{Name: "jdoe", Email: "jdoe@example.com", ModuleList: "1"})
	before, err := f.st.UserByID(ctx, created.ID)
	require.NoError(t, err)

	updated, err := f.svc.UpdateUsers(ctx, f.admin, []UserInput{{
		Name:       "jdoe",
		Email:      "new@example.com",
		City:       "Köln",
		ModuleList: "2,3",
	}})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	u := updated[0]

	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, "Köln", u.City)
	assert.Equal(t, "2,3", u.ModuleList)
	assert.Len(t, u.Modules, 2)
	assert.Equal(t, before.PasswordHash, u.PasswordHash)
	assert.Equal(t, before.MapConfigID, u.MapConfigID)
	assert.Equal(t, before.WmsProxyConfigID, u.WmsProxyConfigID)
	assert.Equal(t, before.WfsProxyConfigID, u.WfsProxyConfigID)
	assert.True(t, u.HasRole(models.RoleUser))
	assert.Equal(t, before.GroupIDs(), u.GroupIDs())
}

func TestUpdateUsersWithoutEmailKeepsAddress(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCreate(t, f.admin, UserInput{Name: "jdoe", Email: "jdoe@example.com"})

	updated, err := f.svc.UpdateUsers(ctx, f.admin, []UserInput{{Name: "jdoe", City: "Bonn"}})
	require.NoError(t, err)
	assert.Equal(t, "jdoe@example.com", updated[0].Email)
	assert.Equal(t, "Bonn", updated[0].City)

	stored, err := f.st.UserByName(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "jdoe@example.com", stored.Email)
}

func TestUpdateUsersOverwritesSetFields(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	layer := models.MapLayer{Name: "roads"}
	require.NoError(t, f.st.Create(ctx, &layer))
	f.mustCreate(t, f.admin, UserInput{Name: "jdoe", Email: "jdoe@example.com"})

	updated, err := f.svc.UpdateUsers(ctx, f.admin, []UserInput{{
		Name:        "jdoe",
		Email:       "jdoe@example.com",
		Password:    "chosen-password",
		MapLayerIDs: []uint{layer.ID},
		Roles:       []string{models.RoleAdmin},
	}})
	require.NoError(t, err)
	u := updated[0]

	assert.True(t, auth.CheckPassword("chosen-password", u.PasswordHash))
	assert.Len(t, u.MapLayers, 1)
	assert.True(t, u.HasRole(models.RoleAdmin))
	assert.False(t, u.HasRole(models.RoleUser))
}

func TestUpdateUsersOutsideGroupIsForbidden(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.mustCreate(t, f.super, UserInput{Name: "outsider", Email: "o@example.com"})

	_, err := f.svc.UpdateUsers(ctx, f.admin, []UserInput{{Name: "outsider", Email: "o@example.com"}})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateUsers(ctx, f.super, []UserInput{{Name: "outsider", Email: "changed@example.com"}})
	assert.NoError(t, err)
}

func TestUpdateUsersAdminCannotGrantSuperadmin(t *testing.T) {
	f := setup(t)
	f.mustCreate(t, f.admin, UserInput{Name: "jdoe", Email: "jdoe@example.com"})

	_, err := f.svc.UpdateUsers(context.Background(), f.admin, []UserInput{{Name: "jdoe", Email: "jdoe@example.com", Roles: []string{models.RoleSuperAdmin}}})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAdminCannotChangeSuperadminInSharedGroup(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	boss, err := f.st.CreateUser(ctx, &models.User{Name: "boss", Email: "boss@example.com", Active: true}, models.RoleSuperAdmin, []uint{f.group.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateUsers(ctx, f.admin, []UserInput{{Name: "boss", Password: "taken-over"}})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.UpdateUsers(ctx, f.admin, []UserInput{{Name: "boss", Roles: []string{models.RoleUser}}})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.svc.ResetUserPassword(ctx, f.admin, uintString(boss.ID)), ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, f.admin, boss.ID), ErrForbidden)

	stored, err := f.st.UserByID(ctx, boss.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasRole(models.RoleSuperAdmin))
	assert.Equal(t, boss.PasswordHash, stored.PasswordHash)

	_, err = f.svc.UpdateUsers(ctx, f.super, []UserInput{{Name: "boss", City: "Bonn"}})
	assert.NoError(t, err)
}

func TestUpdateUsersUnknownRole(t *testing.T) {
	f := setup(t)
	f.mustCreate(t, f.admin, UserInput{Name: "jdoe", Email: "jdoe@example.com"})

	_, err := f.svc.UpdateUsers(context.Background(), f.admin, []UserInput{{Name: "jdoe", Email: "jdoe@example.com", Roles: []string{"ROLE_PILOT"}}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteUserScoping(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	member := f.mustCreate(t, f.admin, UserInput{Name: "member", Email: "m@example.com"})
	outsider := f.mustCreate(t, f.super, UserInput{Name: "outsider", Email: "o@example.com"})

	assert.ErrorIs(t, f.svc.DeleteUser(ctx, f.admin, outsider.ID), ErrNotFound)
	assert.NoError(t, f.svc.DeleteUser(ctx, f.admin, member.ID))
	assert.NoError(t, f.svc.DeleteUser(ctx, f.super, outsider.ID))
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, f.super, outsider.ID), ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, f.admin, f.admin.UserID), ErrValidation)
}

func TestResetPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.mustCreate(t, f.admin, UserInput{Name: "jdoe", Email: "jdoe@example.com"})
	f.sender.sent = nil

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "abc"), ErrValidation)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "999"), ErrNotFound)

	require.NoError(t, f.svc.ResetPassword(ctx, "  "+uintString(u.ID)))
	require.Len(t, f.sender.sent, 1)
	msg := f.sender.sent[0]
	assert.Equal(t, "Password change at GeoPortal", msg.Subject)

	stored, err := f.st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, u.PasswordHash, stored.PasswordHash)
	assert.True(t, passwordInBody(msg.Body, stored.PasswordHash))
}

func TestResetPasswordMailFailureKeepsOldPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.mustCreate(t, f.admin, UserInput{Name: "jdoe", Email: "jdoe@example.com"})
	f.sender.err = errors.New("relay refused")

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, uintString(u.ID)), ErrMailDelivery)

	stored, err := f.st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}

func TestResetUserPasswordScoping(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	outsider := f.mustCreate(t, f.super, UserInput{Name: "outsider", Email: "o@example.com"})

	assert.ErrorIs(t, f.svc.ResetUserPassword(ctx, f.admin, uintString(outsider.ID)), ErrNotFound)
	assert.NoError(t, f.svc.ResetUserPassword(ctx, f.super, uintString(outsider.ID)))
}

func TestCreateGroupByAdminMakesAdminLeader(t *testing.T) {
	f := setup(t)
	g, err := f.svc.CreateGroup(context.Background(), f.admin, GroupInput{Number: "200", Name: "Parks", ModuleList: "1"})
	require.NoError(t, err)

	require.Len(t, g.Users, 1)
	assert.Equal(t, f.admin.UserID, g.Users[0].ID)
	assert.Len(t, g.Modules, 1)
	assert.Equal(t, "admin", g.AppUser)
	assert.Empty(t, f.sender.sent)
}

func TestCreateGroupBySuperadminCreatesSubadmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	g, err := f.svc.CreateGroup(ctx, f.super, GroupInput{
		Number:     "300",
		Name:       "Water",
		Street:     "Main St 1",
		Country:    "DE",
		Language:   "de",
		Mail:       "water@example.com",
		ModuleList: "1,3",
	})
	require.NoError(t, err)

	sub, err := f.st.UserByName(ctx, "subadmin_300")
	require.NoError(t, err)
	assert.True(t, sub.HasRole(models.RoleAdmin))
	assert.Equal(t, "water@example.com", sub.Email)
	assert.Equal(t, "Main St 1", sub.Street)
	assert.Equal(t, "DE", sub.Country)
	assert.Equal(t, "de", sub.Language)
	assert.Equal(t, "1,3", sub.ModuleList)
	assert.Len(t, sub.Modules, 2)
	assert.NotNil(t, sub.MapConfigID)
	assert.Equal(t, []uint{g.ID}, sub.GroupIDs())

	require.Len(t, g.Users, 1)
	assert.Equal(t, sub.ID, g.Users[0].ID)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "water@example.com", f.sender.sent[0].To)
	assert.True(t, passwordInBody(f.sender.sent[0].Body, sub.PasswordHash))
}

func TestCreateGroupBySuperadminNeedsMail(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateGroup(context.Background(), f.super, GroupInput{Number: "400", Name: "No mail"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.st.GroupByNumber(context.Background(), "400")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateGroupDuplicateNumber(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateGroup(context.Background(), f.admin, GroupInput{Number: "100", Name: "Again"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateGroupsCopiesModulesToSubadmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	g, err := f.svc.CreateGroup(ctx, f.super, GroupInput{Number: "300", Name: "Water", Mail: "water@example.com", ModuleList: "1"})
	require.NoError(t, err)

	updated, err := f.svc.UpdateGroups(ctx, f.super, []GroupInput{{ID: g.ID, Number: "300", Name: "Water Works", Mail: "water@example.com", ModuleList: "2,3"}})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, "Water Works", updated[0].Name)
	assert.Len(t, updated[0].Modules, 2)

	sub, err := f.st.UserByName(ctx, "subadmin_300")
	require.NoError(t, err)
	assert.Equal(t, "2,3", sub.ModuleList)
	assert.Len(t, sub.Modules, 2)
}

func TestUpdateGroupsWithoutSubadmin(t *testing.T) {
	f := setup(t)
	updated, err := f.svc.UpdateGroups(context.Background(), f.super, []GroupInput{{Number: "100", Name: "Renamed"}})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated[0].Name)
}

func TestUpdateGroupsErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpdateGroups(ctx, f.admin, []GroupInput{{Number: "100", Name: "x"}})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateGroups(ctx, f.super, []GroupInput{{Number: "nope", Name: "x"}})
	assert.ErrorIs(t, err, ErrNotFound)

	other, err := f.svc.CreateGroup(ctx, f.admin, GroupInput{Number: "101", Name: "Other"})
	require.NoError(t, err)
	_, err = f.svc.UpdateGroups(ctx, f.super, []GroupInput{{ID: other.ID, Number: "100", Name: "Clash"}})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteGroupKeepsMembers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.DeleteGroup(ctx, f.admin, f.group.ID), ErrForbidden)
	require.NoError(t, f.svc.DeleteGroup(ctx, f.super, f.group.ID))
	assert.ErrorIs(t, f.svc.DeleteGroup(ctx, f.super, f.group.ID), ErrNotFound)

	_, err := f.st.UserByID(ctx, f.admin.UserID)
	assert.NoError(t, err)
}

func TestListAndGetAreScoped(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	member := f.mustCreate(t, f.admin, UserInput{Name: "member", Email: "m@example.com"})
	outsider := f.mustCreate(t, f.super, UserInput{Name: "outsider", Email: "o@example.com"})
	other, err := f.svc.CreateGroup(ctx, f.super, GroupInput{Number: "500", Name: "Other", Mail: "other@example.com"})
	require.NoError(t, err)

	users, err := f.svc.ListUsers(ctx, f.admin, UserFilter{})
	require.NoError(t, err)
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	assert.ElementsMatch(t, []string{"admin", "member"}, names)

	all, err := f.svc.ListUsers(ctx, f.super, UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = f.svc.GetUser(ctx, f.admin, member.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetUser(ctx, f.admin, outsider.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	groups, err := f.svc.ListGroups(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "100", groups[0].Number)

	_, err = f.svc.GetGroup(ctx, f.admin, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.GetGroup(ctx, f.super, other.ID)
	assert.NoError(t, err)
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

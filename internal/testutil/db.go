package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foxerka/enterprise-assets/internal/database"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// SetupTestDB opens a private in-memory sqlite database with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func create(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	require.NoError(t, db.Omit(clause.Associations).Create(value).Error)
}

// CreateAssetType creates an asset type; its code is derived from the name
func CreateAssetType(t *testing.T, db *gorm.DB, name string) *domain.AssetType {
	at := &domain.AssetType{Name: name}
	create(t, db, at)
	return at
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *domain.Category {
	c := &domain.Category{Name: name}
	create(t, db, c)
	return c
}

func CreateAssetStatus(t *testing.T, db *gorm.DB, name string) *domain.AssetStatus {
	s := &domain.AssetStatus{Name: name}
	create(t, db, s)
	return s
}

func CreatePurchaseStatus(t *testing.T, db *gorm.DB, name string) *domain.PurchaseStatus {
	s := &domain.PurchaseStatus{Name: name}
	create(t, db, s)
	return s
}

func CreateUnit(t *testing.T, db *gorm.DB, name string) *domain.Unit {
	u := &domain.Unit{Name: name}
	create(t, db, u)
	return u
}

func CreateRole(t *testing.T, db *gorm.DB, name string) *domain.Role {
	r := &domain.Role{Name: name}
	create(t, db, r)
	return r
}

// CreateUser creates a user with an unusable password hash
func CreateUser(t *testing.T, db *gorm.DB, username string, roleID *int64) *domain.User {
	u := &domain.User{
		Username:     username,
		FullName:     "Test " + username,
		PasswordHash: "x",
		RoleID:       roleID,
	}
	create(t, db, u)
	return u
}

// CreateMaster creates a master for user with fresh specialty and qualification rows
func CreateMaster(t *testing.T, db *gorm.DB, userID int64) *domain.Master {
	sp := &domain.Specialty{Name: "Mechanic"}
	create(t, db, sp)
	q := &domain.Qualification{Name: "Grade 4"}
	create(t, db, q)

	m := &domain.Master{
		UserID:          userID,
		SpecialtyID:     sp.ID,
		QualificationID: q.ID,
		SkillLevel:      domain.SkillMedium,
		HireDate:        time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		IsAvailable:     true,
	}
	create(t, db, m)
	return m
}

func CreateWorkshop(t *testing.T, db *gorm.DB, name string, managerID *int64) *domain.Workshop {
	w := &domain.Workshop{Name: name, ManagerID: managerID}
	create(t, db, w)
	return w
}

func CreateSupplier(t *testing.T, db *gorm.DB, name string) *domain.Supplier {
	s := &domain.Supplier{Name: name, IsActive: true}
	create(t, db, s)
	return s
}

// CreateAsset creates an asset, applying opts before insert
func CreateAsset(t *testing.T, db *gorm.DB, name string, opts ...func(*domain.Asset)) *domain.Asset {
	a := &domain.Asset{Name: name, Quantity: decimal.NewFromInt(1)}
	for _, opt := range opts {
		opt(a)
	}
	create(t, db, a)
	return a
}

// CreateEquipment creates an equipment row for asset, applying opts before insert
func CreateEquipment(t *testing.T, db *gorm.DB, assetID, typeID int64, opts ...func(*domain.Equipment)) *domain.Equipment {
	e := &domain.Equipment{AssetID: assetID, EquipmentTypeID: typeID}
	for _, opt := range opts {
		opt(e)
	}
	create(t, db, e)
	return e
}

func CreateWorkAct(t *testing.T, db *gorm.DB, assetID, masterID *int64) *domain.WorkAct {
	w := &domain.WorkAct{AssetID: assetID, MasterID: masterID, Description: "test work"}
	create(t, db, w)
	return w
}

func CreateWorkActMaterial(t *testing.T, db *gorm.DB, workActID, assetID int64) *domain.WorkActMaterial {
	m := &domain.WorkActMaterial{WorkActID: workActID, AssetID: assetID, Quantity: decimal.NewFromInt(2)}
	create(t, db, m)
	return m
}

func CreateCompletionAct(t *testing.T, db *gorm.DB, workActID int64) *domain.CompletionAct {
	c := &domain.CompletionAct{WorkActID: &workActID}
	create(t, db, c)
	return c
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

package database

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Database struct {
	db *gorm.DB
}

// Models

type User struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	Paid      bool  `gorm:"index"`
	Blocked   bool  `gorm:"index"`
	Admin     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OddsSnapshot is one bookmaker's h2h prices for a match at fetch time
type OddsSnapshot struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SportKey  string `gorm:"index:idx_snapshot_sport_taken"`
	MatchID   string `gorm:"index"`
	HomeTeam  string
	AwayTeam  string
	Bookmaker string
	Home      *float64
	Draw      *float64
	Away      *float64
	TakenAt   time.Time `gorm:"index:idx_snapshot_sport_taken"`
}

// Stats aggregates user counts for the admin panel
type Stats struct {
	Total   int64
	Paid    int64
	Blocked int64
	Admins  int64
}

func New(dbPath string) (*Database, error) {
	var db *gorm.DB
	var err error

	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	// Check if this is a PostgreSQL connection string
	if strings.HasPrefix(dbPath, "postgres://") || strings.HasPrefix(dbPath, "postgresql://") {
		db, err = gorm.Open(postgres.Open(dbPath), cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("Database connected (PostgreSQL)")
	} else {
		// SQLite fallback
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		db, err = gorm.Open(sqlite.Open(dbPath), cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", dbPath).Msg("Database initialized (SQLite)")
	}

	if err := db.AutoMigrate(&User{}, &OddsSnapshot{}); err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// Close releases the underlying connection pool
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection, used by the health endpoint
func (d *Database) Ping() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// User operations

func (d *Database) getUser(id int64) (*User, error) {
	var user User
	err := d.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &User{ID: id}, nil
	}
	return &user, err
}

// updateUser loads or creates the user, applies fn and saves it
func (d *Database) updateUser(id int64, fn func(*User)) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var user User
		if err := tx.FirstOrCreate(&user, User{ID: id}).Error; err != nil {
			return err
		}
		fn(&user)
		return tx.Save(&user).Error
	})
}

// Touch records a user the first time they talk to the bot
func (d *Database) Touch(id int64) error {
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&User{ID: id}).Error
}

func (d *Database) IsBlocked(id int64) bool {
	user, err := d.getUser(id)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to load user")
		return false
	}
	return user.Blocked
}

func (d *Database) IsPaid(id int64) bool {
	user, err := d.getUser(id)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to load user")
		return false
	}
	return user.Paid
}

func (d *Database) IsAdmin(id int64) bool {
	user, err := d.getUser(id)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to load user")
		return false
	}
	return user.Admin
}

func (d *Database) AddPaidUser(id int64) error {
	return d.updateUser(id, func(u *User) { u.Paid = true })
}

func (d *Database) BlockUser(id int64) error {
	return d.updateUser(id, func(u *User) { u.Blocked = true })
}

func (d *Database) UnblockUser(id int64) error {
	return d.updateUser(id, func(u *User) { u.Blocked = false })
}

// SeedAdmins grants the admin flag to the configured ids. Admins get paid
// access as well.
func (d *Database) SeedAdmins(ids []int64) error {
	for _, id := range ids {
		if err := d.updateUser(id, func(u *User) {
			u.Admin = true
			u.Paid = true
		}); err != nil {
			return err
		}
	}
	return nil
}

// Stats operations

func (d *Database) GetStats() (Stats, error) {
	var stats Stats
	if err := d.db.Model(&User{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := d.db.Model(&User{}).Where("paid = ?", true).Count(&stats.Paid).Error; err != nil {
		return stats, err
	}
	if err := d.db.Model(&User{}).Where("blocked = ?", true).Count(&stats.Blocked).Error; err != nil {
		return stats, err
	}
	if err := d.db.Model(&User{}).Where("admin = ?", true).Count(&stats.Admins).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

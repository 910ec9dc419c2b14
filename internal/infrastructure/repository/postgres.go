package repository

import (
	"fmt"

	"coursemarket/internal/domain"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
}

func Connect(cfg PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	return db, nil
}

// Migrate создаёт все таблицы, которых касается сервис
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.UserEnrollment{},
		&domain.Course{},
		&domain.CourseStudent{},
		&domain.CourseRating{},
		&domain.Purchase{},
		&domain.CompletedLecture{},
	)
	return errors.Wrap(err, "auto migrate")
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(domain.ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

package db

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/anupam1005/SmartFarmAI/internal/config"
	"github.com/anupam1005/SmartFarmAI/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.DatabaseDriver = config.DriverSQLite
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "smartfarm.db")
	return cfg
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a migrated sqlite store", t, func() {
		ctx := context.Background()
		s, err := Connect(ctx, sqliteConfig(t), logger.Nop())
		So(err, ShouldBeNil)
		defer s.Close()

		n, err := Migrate(ctx, s)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 1)

		Convey("Migrating again applies nothing", func() {
			n, err := Migrate(ctx, s)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)

			rows, err := s.Query(ctx, `SELECT version FROM schema_migrations`)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
		})

		Convey("An empty users table lists as an empty slice", func() {
			got, err := ListUsers(ctx, s)
			So(err, ShouldBeNil)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("Inserted users come back with every column", func() {
			_, err := s.Exec(ctx, `INSERT INTO users(name, email) VALUES (?, ?), (?, ?)`,
				"Asha", "asha@farm.test", "Ravi", "ravi@farm.test")
			So(err, ShouldBeNil)

			got, err := ListUsers(ctx, s)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)

			names := []string{}
			for _, r := range got {
				So(r, ShouldContainKey, "id")
				So(r, ShouldContainKey, "created_at")
				So(r["email"], ShouldHaveSameTypeAs, "")
				names = append(names, r["name"].(string))
			}
			sort.Strings(names)
			So(names, ShouldResemble, []string{"Asha", "Ravi"})
		})

		Convey("A missing table is reported as an error", func() {
			_, err := s.Exec(ctx, `DROP TABLE users`)
			So(err, ShouldBeNil)
			_, err = ListUsers(ctx, s)
			So(err, ShouldNotBeNil)
		})

		Convey("A cancelled context aborts the query", func() {
			cctx, cancel := context.WithTimeout(ctx, time.Nanosecond)
			defer cancel()
			time.Sleep(time.Millisecond)
			_, err := ListUsers(cctx, s)
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
		})

		Convey("Ping succeeds", func() {
			So(s.Ping(ctx), ShouldBeNil)
			So(s.Driver(), ShouldEqual, config.DriverSQLite)
		})
	})
}

func TestConnect(t *testing.T) {
	Convey("Connect rejects unknown drivers", t, func() {
		cfg := config.New()
		cfg.DatabaseDriver = "oracle"
		_, err := Connect(context.Background(), cfg, logger.Nop())
		So(errors.Is(err, ErrUnsupportedDriver), ShouldBeTrue)
	})

	Convey("Openers reject an empty url", t, func() {
		cfg := config.New()
		_, err := OpenPostgres(context.Background(), cfg)
		So(errors.Is(err, ErrMissingURL), ShouldBeTrue)
		_, err = OpenSQLite(context.Background(), cfg)
		So(errors.Is(err, ErrMissingURL), ShouldBeTrue)
	})
}

type plainQuerier struct{}

func (plainQuerier) Query(context.Context, string, ...any) ([]Row, error) { return nil, nil }
func (plainQuerier) Exec(context.Context, string, ...any) (int64, error)  { return 0, nil }
func (plainQuerier) Ping(context.Context) error                           { return nil }
func (plainQuerier) Driver() string                                       { return "fake" }
func (plainQuerier) Close() error                                         { return nil }

func TestMigrateUnsupported(t *testing.T) {
	Convey("Stores without migration hooks are rejected", t, func() {
		_, err := Migrate(context.Background(), plainQuerier{})
		So(errors.Is(err, ErrMigrationsUnsupported), ShouldBeTrue)
	})
}

package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

//go:embed 0003_create_high_scores.sql
var createHighScoresSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createHighScoresSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`DROP TABLE IF EXISTS last_attempts`)
			if err != nil {
				return err
			}
			_, err = db.Exec(`DROP TABLE IF EXISTS high_scores`)
			return err
		},
	)
}

package database

import (
	"fmt"
	"strings"
	"time"

	"coursematch.com/backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the postgres connection, routing gorm's logger through zap.
func Connect(dsn string, log *logger.Logger) (*gorm.DB, error) {
	gormLog := gormlogger.New(
		log.StdLog(),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns a user query into a case-insensitive LIKE pattern.
// Use with ContainsClause so the escape character is declared.
func ContainsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

// ContainsClause renders "LOWER(column) LIKE ? ESCAPE '\'" for column.
func ContainsClause(column string) string {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}

// ContainsAny matches query against any of columns. It returns the
// parenthesised condition and its arguments, ready for Where.
func ContainsAny(query string, columns ...string) (string, []interface{}) {
	pattern := ContainsPattern(query)
	conds := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		conds = append(conds, ContainsClause(col))
		args = append(args, pattern)
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

// internal/db/db.go
package db

import (
    "database/sql"
    "fmt"
    _ "github.com/lib/pq"
    "log"
    "os"
)

var DB *sql.DB

// dsnFromEnv prefers DATABASE_URL (the convention shared with the worker and
// seeder binaries) and falls back to composing a DSN from the DB_* variables.
func dsnFromEnv() string {
    if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
        return dsn
    }

    user := os.Getenv("DB_USER")
    pass := os.Getenv("DB_PASSWORD")
    host := os.Getenv("DB_HOST")
    port := os.Getenv("DB_PORT")
    name := os.Getenv("DB_NAME")

    log.Println("DATABASE_URL not set, using DB_* variables for", name, "on", host)

    return fmt.Sprintf(
        "postgres://%s:%s@%s:%s/%s?sslmode=disable",
        user, pass, host, port, name,
    )
}

func Init() {
    var err error
    DB, err = sql.Open("postgres", dsnFromEnv())
    if err != nil {
        log.Fatalf("failed to connect to DB: %v", err)
    }

    if err = DB.Ping(); err != nil {
        log.Fatalf("failed to ping DB: %v", err)
    }

    log.Println("✅ Connected to database")
}

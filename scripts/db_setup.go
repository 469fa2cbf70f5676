package main

// Postgres maintenance for a deployed bot: checks the connection, prints
// table sizes and prunes old odds snapshots.
//
//	DATABASE_PATH=postgres://... SNAPSHOT_RETENTION=720h go run ./scripts

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const defaultRetention = 30 * 24 * time.Hour

func main() {
	godotenv.Load()

	connStr := os.Getenv("DATABASE_PATH")
	if connStr == "" {
		connStr = os.Getenv("DATABASE_URL")
	}
	if !strings.HasPrefix(connStr, "postgres://") && !strings.HasPrefix(connStr, "postgresql://") {
		fmt.Println("❌ DATABASE_PATH must be a postgres DSN")
		os.Exit(1)
	}

	retention := defaultRetention
	if v := os.Getenv("SNAPSHOT_RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			fmt.Printf("❌ Invalid SNAPSHOT_RETENTION %q\n", v)
			os.Exit(1)
		}
		retention = d
	}

	fmt.Println("🔌 Connecting to database...")
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		fmt.Printf("❌ Connection error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Printf("❌ Ping error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Database connected!")

	printCounts(db)

	cutoff := time.Now().UTC().Add(-retention)
	fmt.Printf("\n🧹 Pruning odds snapshots older than %s...\n", cutoff.Format(time.RFC3339))
	res, err := db.Exec(`DELETE FROM odds_snapshots WHERE taken_at < $1`, cutoff)
	if err != nil {
		fmt.Printf("❌ Prune error: %v\n", err)
		os.Exit(1)
	}
	n, _ := res.RowsAffected()
	fmt.Printf("✅ Removed %d rows\n", n)

	var paid, blocked int
	err = db.QueryRow(`SELECT
		COUNT(*) FILTER (WHERE paid),
		COUNT(*) FILTER (WHERE blocked)
		FROM users`).Scan(&paid, &blocked)
	if err == nil {
		fmt.Printf("\n👥 Users: %d paid, %d blocked\n", paid, blocked)
	}

	printCounts(db)
	fmt.Println("\n✅ DATABASE MAINTENANCE DONE")
}

func printCounts(db *sql.DB) {
	fmt.Println("\n📊 Row counts:")
	for _, table := range []string{"users", "odds_snapshots"} {
		var count int
		err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
		if err != nil {
			fmt.Printf("  - %s: missing (start the bot once to migrate)\n", table)
			continue
		}
		fmt.Printf("  - %s: %d rows\n", table, count)
	}
}

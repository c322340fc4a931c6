//go:build ignore

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"textassign/internal/config"
)

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Command-line flags
var (
	campaignsCount = flag.Int("campaigns", 2, "Number of campaigns to create")
	contactsCount  = flag.Int("contacts", 50, "Number of contacts per campaign")
	clearData      = flag.Bool("clear", false, "Clear existing seed data before inserting")
	showHelp       = flag.Bool("help", false, "Show usage information")
)

func main() {
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	printInfo("=== TextAssign Database Seeder ===\n")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	// Connect to database
	printInfo("Connecting to database...")
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to open database connection: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		printError(fmt.Sprintf("Failed to ping database: %v", err))
		os.Exit(1)
	}
	printSuccess("✓ Connected to database\n")

	if *clearData {
		if err := clearSeedData(db); err != nil {
			printError(fmt.Sprintf("Failed to clear seed data: %v", err))
			os.Exit(1)
		}
	}

	if err := seed(db, *campaignsCount, *contactsCount); err != nil {
		printError(fmt.Sprintf("Seeding failed: %v", err))
		os.Exit(1)
	}

	printInfo("\nSeeding completed successfully!")
}

// clearSeedData removes existing seed data by its naming pattern
func clearSeedData(db *sql.DB) error {
	printWarning("Clearing existing seed data...")

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM campaign_contact_tag WHERE campaign_contact_id IN (
			SELECT id FROM campaign_contact WHERE cell LIKE '+1555010%')`,
		`DELETE FROM campaign_contact WHERE cell LIKE '+1555010%'`,
		`DELETE FROM assignment_request WHERE organization_id IN (
			SELECT id FROM organization WHERE name = 'Seed Organization')`,
		`DELETE FROM assignment WHERE campaign_id IN (
			SELECT id FROM campaign WHERE title LIKE 'Seed Campaign%')`,
		`DELETE FROM campaign_team WHERE campaign_id IN (
			SELECT id FROM campaign WHERE title LIKE 'Seed Campaign%')`,
		`DELETE FROM campaign WHERE title LIKE 'Seed Campaign%'`,
		`DELETE FROM team_escalation_tags WHERE team_id IN (
			SELECT id FROM team WHERE title LIKE 'Seed Team%')`,
		`DELETE FROM user_team WHERE team_id IN (
			SELECT id FROM team WHERE title LIKE 'Seed Team%')`,
		`DELETE FROM team WHERE title LIKE 'Seed Team%'`,
		`DELETE FROM tag WHERE title LIKE 'Seed Tag%'`,
		`DELETE FROM user_organization WHERE organization_id IN (
			SELECT id FROM organization WHERE name = 'Seed Organization')`,
		`DELETE FROM organization WHERE name = 'Seed Organization'`,
		`DELETE FROM users WHERE email LIKE '%@seed.example.com'`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear seed data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	printSuccess("✓ Seed data cleared\n")
	return nil
}

// seed inserts one organization with teams, users, campaigns and contacts
func seed(db *sql.DB, campaigns, contactsPerCampaign int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Organization with assignment requests enabled
	var orgID int
	err = tx.QueryRow(`
		INSERT INTO organization (name, features)
		VALUES ('Seed Organization', '{"textRequestFormEnabled": true, "textRequestType": "UNSENT", "textRequestMaxCount": 200}')
		RETURNING id
	`).Scan(&orgID)
	if err != nil {
		return fmt.Errorf("failed to insert organization: %w", err)
	}

	// Users: a texter and a supervolunteer
	var texterID, supervisorID int
	err = tx.QueryRow(`
		INSERT INTO users (email, external_id)
		VALUES ('texter@seed.example.com', 'U0000001')
		RETURNING id
	`).Scan(&texterID)
	if err != nil {
		return fmt.Errorf("failed to insert texter: %w", err)
	}
	err = tx.QueryRow(`
		INSERT INTO users (email, external_id)
		VALUES ('supervisor@seed.example.com', 'U0000002')
		RETURNING id
	`).Scan(&supervisorID)
	if err != nil {
		return fmt.Errorf("failed to insert supervisor: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO user_organization (user_id, organization_id, role)
		VALUES ($1, $3, 'TEXTER'), ($2, $3, 'SUPERVOLUNTEER')
	`, texterID, supervisorID, orgID)
	if err != nil {
		return fmt.Errorf("failed to insert memberships: %w", err)
	}

	// One enabled team with both seed users on it
	var teamID int
	err = tx.QueryRow(`
		INSERT INTO team (organization_id, title, assignment_priority, assignment_type, is_assignment_enabled, max_request_count)
		VALUES ($1, 'Seed Team Alpha', 100, 'UNSENT', true, 100)
		RETURNING id
	`, orgID).Scan(&teamID)
	if err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO user_team (user_id, team_id)
		VALUES ($1, $3), ($2, $3)
	`, texterID, supervisorID, teamID)
	if err != nil {
		return fmt.Errorf("failed to insert team memberships: %w", err)
	}

	// Campaigns with unassigned contacts ready to claim
	for i := 1; i <= campaigns; i++ {
		var campaignID int
		err = tx.QueryRow(`
			INSERT INTO campaign (organization_id, title, use_dynamic_assignment)
			VALUES ($1, $2, true)
			RETURNING id
		`, orgID, fmt.Sprintf("Seed Campaign %d", i)).Scan(&campaignID)
		if err != nil {
			return fmt.Errorf("failed to insert campaign: %w", err)
		}

		_, err = tx.Exec(`INSERT INTO campaign_team (campaign_id, team_id) VALUES ($1, $2)`, campaignID, teamID)
		if err != nil {
			return fmt.Errorf("failed to link campaign to team: %w", err)
		}

		for j := 0; j < contactsPerCampaign; j++ {
			cell := fmt.Sprintf("+1555010%04d", (i-1)*contactsPerCampaign+j)
			_, err = tx.Exec(`
				INSERT INTO campaign_contact (campaign_id, first_name, last_name, cell)
				VALUES ($1, 'Contact', $2, $3)
			`, campaignID, fmt.Sprintf("%d-%d", i, j), cell)
			if err != nil {
				return fmt.Errorf("failed to insert contact: %w", err)
			}
		}

		printSuccess(fmt.Sprintf("✓ Seed Campaign %d created with %d contacts", i, contactsPerCampaign))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	printInfo("\n=== Seeding Summary ===")
	printSuccess(fmt.Sprintf("✓ Organization: %d", orgID))
	printSuccess(fmt.Sprintf("✓ Texter user: %d (external_id U0000001)", texterID))
	printSuccess(fmt.Sprintf("✓ Supervisor user: %d", supervisorID))
	printSuccess(fmt.Sprintf("✓ Campaigns: %d x %d contacts", campaigns, contactsPerCampaign))
	return nil
}

// Helper functions for colored output

func printSuccess(msg string) {
	fmt.Printf("%s%s%s\n", colorGreen, msg, colorReset)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorRed, msg, colorReset)
}

func printInfo(msg string) {
	fmt.Printf("%s%s%s\n", colorCyan, msg, colorReset)
}

func printWarning(msg string) {
	fmt.Printf("%s%s%s\n", colorYellow, msg, colorReset)
}

func printUsage() {
	printInfo("=== TextAssign Database Seeder ===\n")
	fmt.Println("Usage: go run scripts/seed.go [flags]")
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  go run scripts/seed.go")
	fmt.Println("  go run scripts/seed.go -campaigns 5 -contacts 100")
	fmt.Println("  go run scripts/seed.go -clear")
}

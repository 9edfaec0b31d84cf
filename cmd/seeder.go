package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/helpdesk-console/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database, logger.LoggerWrapper())
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		if clearData {
			if err := clearTables(ctx, db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seed(ctx, db, cfg.Security.BCryptCost); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	},
}

// seededTables are cleared children first.
var seededTables = []string{
	"audit_logs",
	"kb_articles",
	"change_requests",
	"srm_requests",
	"helpdesk_tickets",
	"itam_repairs",
	"itam_asset_assignments",
	"itam_asset_history",
	"itam_assets",
	"assets",
	"users",
	"organisations",
}

func clearTables(ctx context.Context, db *sqlx.DB) error {
	for _, table := range seededTables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func seed(ctx context.Context, db *sqlx.DB, cost int) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const tenantID = 1
	var orgID int64
	err = tx.GetContext(ctx, &orgID, tx.Rebind("SELECT id FROM organisations WHERE name = ?"), "Acme IT")
	if err != nil {
		if err := tx.GetContext(ctx, &orgID, tx.Rebind("INSERT INTO organisations (tenant_id, name) VALUES (?, ?) RETURNING id"), tenantID, "Acme IT"); err != nil {
			return fmt.Errorf("insert organisation: %w", err)
		}
		fmt.Println("Seeded organisation: Acme IT")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), cost)
	if err != nil {
		return err
	}

	users := []struct {
		Email, Name, Department, Role string
	}{
		{"admin@helpdesk.local", "Ada Admin", "IT", "admin"},
		{"agent@helpdesk.local", "Sam Agent", "IT", "agent"},
		{"requester@helpdesk.local", "Riley Requester", "Finance", "requester"},
	}
	ids := make(map[string]int64, len(users))
	for _, u := range users {
		var id int64
		if err := tx.GetContext(ctx, &id, tx.Rebind("SELECT id FROM users WHERE email = ?"), u.Email); err == nil {
			ids[u.Email] = id
			fmt.Println("user already exists:", u.Email)
			continue
		}
		err := tx.GetContext(ctx, &id, tx.Rebind(`INSERT INTO users (email, name, password_hash, department, role, is_active, organisation_id, tenant_id)
			VALUES (?, ?, ?, ?, ?, true, ?, ?) RETURNING id`), u.Email, u.Name, string(hash), u.Department, u.Role, orgID, tenantID)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		ids[u.Email] = id
		fmt.Println("Seeded user:", u.Email)
	}
	agent := ids["agent@helpdesk.local"]
	requester := ids["requester@helpdesk.local"]

	var existing int
	if err := tx.GetContext(ctx, &existing, "SELECT COUNT(*) FROM helpdesk_tickets"); err != nil {
		return err
	}
	if existing > 0 {
		fmt.Println("sample records already present; skipping")
		return tx.Commit()
	}

	tickets := []struct {
		Title, Category, Status, Priority string
		Assigned                          *int64
	}{
		{"VPN drops every hour", "network", "open", "high", nil},
		{"New laptop for onboarding", "hardware", "in_progress", "medium", &agent},
		{"Printer on floor 3 jams", "hardware", "resolved", "low", &agent},
		{"Password reset for payroll app", "access", "closed", "medium", &agent},
	}
	for i, t := range tickets {
		_, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO helpdesk_tickets (ticket_number, title, category, status, priority, assigned_to, requester_id, organisation_id, tenant_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`), fmt.Sprintf("TKT-%06d", i+1), t.Title, t.Category, t.Status, t.Priority, t.Assigned, requester, orgID, tenantID)
		if err != nil {
			return fmt.Errorf("insert ticket: %w", err)
		}
	}

	devices := []struct {
		Name, Type, Brand, Status string
		Assigned                  *int64
	}{
		{"Latitude 7440", "laptop", "Dell", "assigned", &requester},
		{"ThinkPad X1", "laptop", "Lenovo", "available", nil},
		{"UltraSharp U2723", "monitor", "Dell", "available", nil},
		{"LaserJet M404", "printer", "HP", "in_repair", nil},
	}
	for i, d := range devices {
		_, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO itam_assets (asset_tag, name, type, brand, status, assigned_to, created_by, organisation_id, tenant_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`), fmt.Sprintf("AST-%06d", i+1), d.Name, d.Type, d.Brand, d.Status, d.Assigned, agent, orgID, tenantID)
		if err != nil {
			return fmt.Errorf("insert itam asset: %w", err)
		}
	}

	purchased := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO assets (name, asset_type, purchase_date, purchase_price, current_value, salvage_value, useful_life_years, depreciation_method, status, created_by, organisation_id, tenant_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`), "Core switch", "network", purchased, 12000.0, 9000.0, 1000.0, 5, "straight_line", "active", agent, orgID, tenantID)
	if err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO srm_requests (request_number, title, category, status, priority, requester_id, organisation_id, tenant_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`), "SR-000001", "Access to the finance share", "access", "pending", "medium", requester, orgID, tenantID)
	if err != nil {
		return fmt.Errorf("insert service request: %w", err)
	}

	start := time.Now().Add(72 * time.Hour).Truncate(time.Hour)
	_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO change_requests (change_number, title, risk_level, impact, scheduled_start, scheduled_end, status, requester_id, organisation_id, tenant_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`), "CHG-000001", "Firewall firmware upgrade", "high", "high", start, start.Add(2*time.Hour), "submitted", agent, orgID, tenantID)
	if err != nil {
		return fmt.Errorf("insert change request: %w", err)
	}

	published := time.Now().Add(-24 * time.Hour)
	_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO kb_articles (title, content, category, tags, status, author_id, published_at, organisation_id, tenant_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`), "Connecting to the VPN", "Install the client, sign in with your directory account and pick the nearest gateway.", "network", "vpn,remote", "published", agent, published, orgID, tenantID)
	if err != nil {
		return fmt.Errorf("insert kb article: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	fmt.Println("Sample helpdesk data seeded successfully")
	return nil
}

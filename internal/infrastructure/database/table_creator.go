// Package database bootstraps the portfolio schema on a fresh database.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/studio-one/portfolio-api/internal/domain/deletion"
)

// TableCreator handles the creation of the portfolio schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent idempotently inserts the singleton configuration rows the
// site and the danger zone resets expect to exist.
func (tc *TableCreator) SeedInitialContent(db *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	seeds := []struct {
		name  string
		query string
		args  []any
	}{
		{
			name:  "hero content",
			query: `INSERT OR IGNORE INTO hero_content (id, main_name, subtitles, social_media_links, updated_at) VALUES (?, ?, '[]', '[]', ?)`,
			args:  []any{deletion.HeroContentID, "Your Name", now},
		},
		{
			name:  "about content",
			query: `INSERT OR IGNORE INTO about_content (id, headline_main, paragraph1, updated_at) VALUES (?, ?, ?, ?)`,
			args:  []any{deletion.AboutContentID, "About Me", "Tell visitors who you are.", now},
		},
		{
			name:  "resume meta",
			query: `INSERT OR IGNORE INTO resume_meta (id, description, updated_at) VALUES (?, ?, ?)`,
			args:  []any{deletion.ResumeMetaID, "Resume overview.", now},
		},
		{
			name:  "contact page details",
			query: `INSERT OR IGNORE INTO contact_page_details (id, address, email, updated_at) VALUES (?, ?, ?, ?)`,
			args:  []any{deletion.ContactPageDetailsID, "Somewhere", "contact@example.com", now},
		},
		{
			name:  "terms and conditions",
			query: `INSERT OR IGNORE INTO legal_documents (id, title, content, updated_at) VALUES (?, ?, ?, ?)`,
			args:  []any{deletion.TermsDocumentID, "Terms & Conditions", "", now},
		},
		{
			name:  "privacy policy",
			query: `INSERT OR IGNORE INTO legal_documents (id, title, content, updated_at) VALUES (?, ?, ?, ?)`,
			args:  []any{deletion.PrivacyDocumentID, "Privacy Policy", "", now},
		},
		{
			name:  "site settings",
			query: `INSERT OR IGNORE INTO site_settings (id, is_maintenance_mode_enabled, maintenance_message, updated_at) VALUES (?, 0, ?, ?)`,
			args:  []any{deletion.SiteSettingsID, "Default maintenance message. Please update from admin panel.", now},
		},
	}

	for _, seed := range seeds {
		if _, err := db.Exec(seed.query, seed.args...); err != nil {
			return fmt.Errorf("failed to seed %s: %w", seed.name, err)
		}
	}
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS hero_content (id TEXT PRIMARY KEY, main_name TEXT, subtitles TEXT NOT NULL DEFAULT '[]', social_media_links TEXT NOT NULL DEFAULT '[]', updated_at TEXT)`,
	`CREATE TABLE IF NOT EXISTS about_content (id TEXT PRIMARY KEY, headline_main TEXT, headline_code_keyword TEXT, headline_connector TEXT, headline_creativity_keyword TEXT, paragraph1 TEXT, paragraph2 TEXT, paragraph3 TEXT, image_url TEXT, image_tagline TEXT, updated_at TEXT)`,
	`CREATE TABLE IF NOT EXISTS projects (id TEXT PRIMARY KEY, title TEXT NOT NULL, description TEXT, image_url TEXT, live_demo_url TEXT, repo_url TEXT, tags TEXT, status TEXT, sort_order INTEGER DEFAULT 0, created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS project_views (id TEXT PRIMARY KEY, project_id TEXT, viewed_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP, user_agent TEXT)`,
	`CREATE TABLE IF NOT EXISTS skill_categories (id TEXT PRIMARY KEY, name TEXT NOT NULL, icon_image_url TEXT, sort_order INTEGER DEFAULT 0, created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS skills (id TEXT PRIMARY KEY, category_id TEXT, name TEXT NOT NULL, icon_image_url TEXT, description TEXT, created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS skill_interactions (id TEXT PRIMARY KEY, skill_id TEXT, interaction_type TEXT, interacted_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS timeline_events (id TEXT PRIMARY KEY, date TEXT, title TEXT NOT NULL, description TEXT, icon_name TEXT, type TEXT, sort_order INTEGER DEFAULT 0)`,
	`CREATE TABLE IF NOT EXISTS certifications (id TEXT PRIMARY KEY, title TEXT NOT NULL, issuer TEXT, date TEXT, image_url TEXT, verify_url TEXT, created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS resume_meta (id TEXT PRIMARY KEY, description TEXT, resume_pdf_url TEXT, updated_at TEXT)`,
	`CREATE TABLE IF NOT EXISTS resume_experience (id TEXT PRIMARY KEY, job_title TEXT NOT NULL, company_name TEXT, date_range TEXT, description_points TEXT, icon_image_url TEXT, sort_order INTEGER DEFAULT 0)`,
	`CREATE TABLE IF NOT EXISTS resume_education (id TEXT PRIMARY KEY, degree_or_certification TEXT NOT NULL, institution_name TEXT, date_range TEXT, description TEXT, icon_image_url TEXT, sort_order INTEGER DEFAULT 0)`,
	`CREATE TABLE IF NOT EXISTS resume_key_skill_categories (id TEXT PRIMARY KEY, category_name TEXT NOT NULL, icon_image_url TEXT, sort_order INTEGER DEFAULT 0)`,
	`CREATE TABLE IF NOT EXISTS resume_key_skills (id TEXT PRIMARY KEY, category_id TEXT, skill_name TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS resume_languages (id TEXT PRIMARY KEY, language_name TEXT NOT NULL, proficiency TEXT, icon_image_url TEXT, sort_order INTEGER DEFAULT 0)`,
	`CREATE TABLE IF NOT EXISTS resume_downloads (id TEXT PRIMARY KEY, downloaded_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP, user_agent TEXT)`,
	`CREATE TABLE IF NOT EXISTS contact_page_details (id TEXT PRIMARY KEY, address TEXT, phone TEXT, phone_href TEXT, email TEXT, email_href TEXT, updated_at TEXT)`,
	`CREATE TABLE IF NOT EXISTS social_links (id TEXT PRIMARY KEY, label TEXT NOT NULL, url TEXT NOT NULL, icon_image_url TEXT, display_text TEXT, sort_order INTEGER DEFAULT 0)`,
	`CREATE TABLE IF NOT EXISTS contact_submissions (id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT NOT NULL, subject TEXT, message TEXT NOT NULL, phone_number TEXT, status TEXT NOT NULL DEFAULT 'New', notes TEXT, is_starred INTEGER DEFAULT 0, submitted_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS legal_documents (id TEXT PRIMARY KEY, title TEXT NOT NULL, content TEXT, updated_at TEXT)`,
	`CREATE TABLE IF NOT EXISTS visitor_logs (id TEXT PRIMARY KEY, path TEXT, referrer TEXT, user_agent TEXT, visited_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS admin_activity_log (id TEXT PRIMARY KEY, action_type TEXT NOT NULL, description TEXT NOT NULL, user_identifier TEXT, details TEXT, created_at TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS social_media_clicks (id TEXT PRIMARY KEY, link_id TEXT, link_label TEXT, clicked_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS quick_notes (id TEXT PRIMARY KEY, user_id TEXT NOT NULL, title TEXT, content TEXT, created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS site_settings (id TEXT PRIMARY KEY, is_maintenance_mode_enabled INTEGER NOT NULL DEFAULT 0, maintenance_message TEXT, updated_at TEXT)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_project_views_project_id ON project_views(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_skills_category_id ON skills(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_skill_interactions_skill_id ON skill_interactions(skill_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resume_key_skills_category_id ON resume_key_skills(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_submissions_status ON contact_submissions(status)`,
	`CREATE INDEX IF NOT EXISTS idx_admin_activity_log_created_at ON admin_activity_log(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_quick_notes_user_id ON quick_notes(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_visitor_logs_visited_at ON visitor_logs(visited_at)`,
}

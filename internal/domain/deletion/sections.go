package deletion

// Singleton row ids of the configuration tables.
const (
	AboutContentID       = "00000000-0000-0000-0000-000000000001"
	ResumeMetaID         = "00000000-0000-0000-0000-000000000003"
	HeroContentID        = "00000000-0000-0000-0000-000000000004"
	ContactPageDetailsID = "00000000-0000-0000-0000-000000000005"
	SiteSettingsID       = "global_settings"
	TermsDocumentID      = "terms-and-conditions"
	PrivacyDocumentID    = "privacy-policy"
)

// protectedBuckets are never emptied by any section.
var protectedBuckets = map[string]bool{
	"admin-profile-photos": true,
}

// IsProtectedBucket reports whether a bucket is off limits to bulk deletion.
func IsProtectedBucket(bucket string) bool {
	return protectedBuckets[bucket]
}

// DefaultPlans returns the portfolio's deletable sections in display order.
func DefaultPlans() []Plan {
	return []Plan{
		{
			Key:         "hero",
			Label:       "Hero Section Content",
			Description: "Resets the hero banner to placeholder text.",
			TablesToReset: []ResetRow{{
				Table: "hero_content",
				ID:    HeroContentID,
				Fields: []Field{
					{Column: "main_name", Value: "Hero Content Reset by Admin"},
					{Column: "subtitles", Value: "[]"},
					{Column: "social_media_links", Value: "[]"},
					{Column: "updated_at", Value: Now},
				},
			}},
		},
		{
			Key:         "about",
			Label:       "About Section Content",
			Description: "Resets the about section and removes its images.",
			TablesToReset: []ResetRow{{
				Table: "about_content",
				ID:    AboutContentID,
				Fields: []Field{
					{Column: "headline_main", Value: "About Content Reset by Admin"},
					{Column: "headline_code_keyword", Value: nil},
					{Column: "headline_connector", Value: nil},
					{Column: "headline_creativity_keyword", Value: nil},
					{Column: "paragraph1", Value: "Please update the 'About Me' section from the admin dashboard."},
					{Column: "paragraph2", Value: nil},
					{Column: "paragraph3", Value: nil},
					{Column: "image_url", Value: nil},
					{Column: "image_tagline", Value: nil},
					{Column: "updated_at", Value: Now},
				},
			}},
			BucketsToEmpty: []string{"about-images"},
		},
		{
			Key:            "projects",
			Label:          "All Projects Data",
			Description:    "Deletes every project, its view analytics and its images.",
			TablesToClear:  []string{"projects", "project_views"},
			BucketsToEmpty: []string{"project-images"},
		},
		{
			Key:           "project_views_analytics",
			Label:         "Project Views Data (Analytics)",
			TablesToClear: []string{"project_views"},
		},
		{
			Key:            "skills",
			Label:          "All Skills & Categories Data",
			Description:    "Deletes skills, skill categories, their interactions and icons.",
			TablesToClear:  []string{"skills", "skill_categories", "skill_interactions"},
			BucketsToEmpty: []string{"category-icons", "skill-icons"},
		},
		{
			Key:           "skill_interactions_analytics",
			Label:         "Skill Interactions Data (Analytics)",
			TablesToClear: []string{"skill_interactions"},
		},
		{
			Key:           "journey",
			Label:         "Journey/Timeline Events Data",
			TablesToClear: []string{"timeline_events"},
		},
		{
			Key:            "certifications",
			Label:          "All Certifications Data",
			TablesToClear:  []string{"certifications"},
			BucketsToEmpty: []string{"certification-images"},
		},
		{
			Key:         "resume",
			Label:       "All Resume Data",
			Description: "Deletes resume entries and downloads, resets the overview and removes resume files.",
			TablesToClear: []string{
				"resume_experience",
				"resume_education",
				"resume_key_skills",
				"resume_key_skill_categories",
				"resume_languages",
				"resume_downloads",
			},
			TablesToReset: []ResetRow{{
				Table: "resume_meta",
				ID:    ResumeMetaID,
				Fields: []Field{
					{Column: "description", Value: "Resume overview has been reset. Please update from the admin panel."},
					{Column: "resume_pdf_url", Value: nil},
					{Column: "updated_at", Value: Now},
				},
			}},
			BucketsToEmpty: []string{
				"resume-pdfs",
				"resume-experience-icons",
				"resume-education-icons",
				"resume-language-icons",
			},
		},
		{
			Key:           "resume_downloads_analytics",
			Label:         "Resume Downloads Data (Analytics)",
			TablesToClear: []string{"resume_downloads"},
		},
		{
			Key:           "contact_page_content",
			Label:         "Contact Page Details & Social Links",
			TablesToClear: []string{"social_links"},
			TablesToReset: []ResetRow{{
				Table: "contact_page_details",
				ID:    ContactPageDetailsID,
				Fields: []Field{
					{Column: "address", Value: "Contact Address Reset by Admin"},
					{Column: "phone", Value: nil},
					{Column: "phone_href", Value: nil},
					{Column: "email", Value: "contact-reset@example.com"},
					{Column: "email_href", Value: nil},
					{Column: "updated_at", Value: Now},
				},
			}},
		},
		{
			Key:           "contact_submissions",
			Label:         "All Contact Form Submissions",
			TablesToClear: []string{"contact_submissions"},
		},
		{
			Key:   "legal_docs",
			Label: "Legal Documents Content",
			TablesToReset: []ResetRow{
				{
					Table: "legal_documents",
					ID:    TermsDocumentID,
					Fields: []Field{
						{Column: "title", Value: "Terms & Conditions"},
						{Column: "content", Value: "Terms content reset by admin. Please update."},
						{Column: "updated_at", Value: Now},
					},
				},
				{
					Table: "legal_documents",
					ID:    PrivacyDocumentID,
					Fields: []Field{
						{Column: "title", Value: "Privacy Policy"},
						{Column: "content", Value: "Privacy content reset by admin. Please update."},
						{Column: "updated_at", Value: Now},
					},
				},
			},
		},
		{
			Key:           "visitor_analytics",
			Label:         "Visitor Analytics Data",
			TablesToClear: []string{"visitor_logs"},
		},
		{
			Key:           "activity_log",
			Label:         "Admin Activity Log",
			TablesToClear: []string{"admin_activity_log"},
		},
		{
			Key:           "social_media_clicks_all",
			Label:         "All Social Media Clicks",
			TablesToClear: []string{"social_media_clicks"},
		},
		{
			Key:         "quick_notes_user",
			Label:       "All My Quick Notes",
			Description: "Deletes only the quick notes owned by the signed-in admin.",
			Special: DeleteOwnedRows{
				Name:        SpecialDeleteUserQuickNotes,
				Table:       "quick_notes",
				OwnerColumn: "user_id",
			},
		},
		{
			Key:         "site_maintenance_message_reset",
			Label:       "Site Maintenance Message",
			Description: "Resets the maintenance message without touching the maintenance toggle.",
			Special: ResetSharedField{
				Name:  SpecialResetMaintenanceMessage,
				Table: "site_settings",
				ID:    SiteSettingsID,
				Fields: []Field{
					{Column: "maintenance_message", Value: "Default maintenance message. Please update from admin panel."},
				},
			},
		},
	}
}

// DefaultAliases maps the grouped reset keys onto their sections.
func DefaultAliases() map[string]string {
	return map[string]string{
		"projects_all":            "projects",
		"skills_all":              "skills",
		"journey_events":          "journey",
		"certifications_all":      "certifications",
		"resume_all":              "resume",
		"contact_submissions_all": "contact_submissions",
		"legal_docs_content":      "legal_docs",
		"admin_activity_log":      "activity_log",
	}
}

// DefaultRegistry builds the registry used by the admin API.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultPlans(), DefaultAliases())
}

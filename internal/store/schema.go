package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	tableProfiles    = "profiles"
	tableAssessments = "assessments"
	tableVitals      = "vitals"
	tablePlanItems   = "plan_items"
	tableLLMEvents   = "llm_request_events"
	tableReports     = "reports"

	colID        = "id"
	colUserID    = "user_id"
	colSequence  = "sequence"
	colTimestamp = "timestamp"
)

var (
	profilesColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "dob", Type: field.TypeString, Default: ""},
		{Name: "birth_place", Type: field.TypeString, Default: ""},
		{Name: "current_location", Type: field.TypeString, Default: ""},
		{Name: "prakriti", Type: field.TypeString, Default: ""},
		{Name: "vata", Type: field.TypeInt, Default: 0},
		{Name: "pitta", Type: field.TypeInt, Default: 0},
		{Name: "kapha", Type: field.TypeInt, Default: 0},
		{Name: "last_updated", Type: field.TypeTime},
	}
	profilesTable = &schema.Table{
		Name:       tableProfiles,
		Columns:    profilesColumns,
		PrimaryKey: []*schema.Column{profilesColumns[0]},
	}

	assessmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "pass", Type: field.TypeString},
		{Name: "vata", Type: field.TypeInt},
		{Name: "pitta", Type: field.TypeInt},
		{Name: "kapha", Type: field.TypeInt},
		{Name: "dominant", Type: field.TypeString},
		{Name: "answers", Type: field.TypeString, Size: 2147483647},
	}
	assessmentsTable = &schema.Table{
		Name:       tableAssessments,
		Columns:    assessmentsColumns,
		PrimaryKey: []*schema.Column{assessmentsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "assessment_user_id_sequence", Columns: []*schema.Column{assessmentsColumns[1], assessmentsColumns[2]}},
		},
	}

	vitalsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "kind", Type: field.TypeString},
		{Name: "value", Type: field.TypeFloat64},
		{Name: "secondary", Type: field.TypeFloat64, Nullable: true},
		{Name: "notes", Type: field.TypeString, Default: ""},
	}
	vitalsTable = &schema.Table{
		Name:       tableVitals,
		Columns:    vitalsColumns,
		PrimaryKey: []*schema.Column{vitalsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "vital_user_id_kind", Columns: []*schema.Column{vitalsColumns[1], vitalsColumns[4]}},
		},
	}

	planItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "category", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "benefits", Type: field.TypeString, Default: ""},
		{Name: "planned", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
	}
	planItemsTable = &schema.Table{
		Name:       tablePlanItems,
		Columns:    planItemsColumns,
		PrimaryKey: []*schema.Column{planItemsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "plan_item_user_id", Columns: []*schema.Column{planItemsColumns[1]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llm_event_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
			{Name: "llm_event_provider", Columns: []*schema.Column{llmEventsColumns[3]}},
		},
	}

	reportsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "kind", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "content", Type: field.TypeString, Size: 2147483647},
	}
	reportsTable = &schema.Table{
		Name:       tableReports,
		Columns:    reportsColumns,
		PrimaryKey: []*schema.Column{reportsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "report_user_id_kind", Columns: []*schema.Column{reportsColumns[1], reportsColumns[4]}},
		},
	}

	tables = []*schema.Table{
		profilesTable,
		assessmentsTable,
		vitalsTable,
		planItemsTable,
		llmEventsTable,
		reportsTable,
	}
)

// migrate creates or alters the tables to match the declared schema.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions consumed by the ent migrator. Column order matters:
// primary keys are referenced by index below.
var (
	usersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "full_name", Type: field.TypeString},
		{Name: "role", Type: field.TypeEnum, Enums: []string{"student", "lecturer"}},
		{Name: "school", Type: field.TypeString, Default: ""},
		{Name: "course", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	usersTable = &schema.Table{
		Name:       "users",
		Columns:    usersColumns,
		PrimaryKey: []*schema.Column{usersColumns[0]},
	}

	authStateColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "user_id", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Default: ""},
		{Name: "access_token", Type: field.TypeString, Default: ""},
		{Name: "refresh_token", Type: field.TypeString, Default: ""},
		{Name: "updated_at", Type: field.TypeTime},
	}
	authStateTable = &schema.Table{
		Name:       "auth_state",
		Columns:    authStateColumns,
		PrimaryKey: []*schema.Column{authStateColumns[0]},
	}

	chatSessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	chatSessionsTable = &schema.Table{
		Name:       "chat_sessions",
		Columns:    chatSessionsColumns,
		PrimaryKey: []*schema.Column{chatSessionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "chatsession_user_id_created_at",
				Columns: []*schema.Column{chatSessionsColumns[1], chatSessionsColumns[4]},
			},
		},
	}

	chatMessagesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "sender", Type: field.TypeEnum, Enums: []string{SenderUser, SenderTutor}},
		{Name: "content", Type: field.TypeString, Size: 2147483647},
		{Name: "metadata", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
	}
	chatMessagesTable = &schema.Table{
		Name:       "chat_messages",
		Columns:    chatMessagesColumns,
		PrimaryKey: []*schema.Column{chatMessagesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "chat_messages_chat_sessions_messages",
				Columns:    []*schema.Column{chatMessagesColumns[7]},
				RefColumns: []*schema.Column{chatSessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "chatmessage_session_id_sequence",
				Columns: []*schema.Column{chatMessagesColumns[7], chatMessagesColumns[1]},
			},
		},
	}

	llmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
	}

	rewardEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString},
		{Name: "game", Type: field.TypeString},
		{Name: "won", Type: field.TypeBool},
		{Name: "score", Type: field.TypeInt},
		{Name: "total", Type: field.TypeInt},
		{Name: "points", Type: field.TypeInt},
	}
	rewardEventsTable = &schema.Table{
		Name:       "reward_events",
		Columns:    rewardEventsColumns,
		PrimaryKey: []*schema.Column{rewardEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "rewardevent_user_id_sequence",
				Columns: []*schema.Column{rewardEventsColumns[3], rewardEventsColumns[1]},
			},
		},
	}

	tables = []*schema.Table{
		usersTable,
		authStateTable,
		chatSessionsTable,
		chatMessagesTable,
		llmRequestEventsTable,
		rewardEventsTable,
	}
)

func init() {
	chatMessagesTable.ForeignKeys[0].RefTable = chatSessionsTable
}

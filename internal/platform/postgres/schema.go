package postgres

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const schema = `
-- Attribute lookup tables. Values are deduplicated by exact string; rows are
-- created lazily and never updated or deleted.
CREATE TABLE IF NOT EXISTS first_names (
    id BIGSERIAL PRIMARY KEY,
    value TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS last_names (
    id BIGSERIAL PRIMARY KEY,
    value TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS emails (
    id BIGSERIAL PRIMARY KEY,
    value TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS phones (
    id BIGSERIAL PRIMARY KEY,
    value TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sources (
    id BIGSERIAL PRIMARY KEY,
    value TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Deduplicated person identities. Identity key is (email_id, phone_id); the
-- two partial unique indexes make concurrent first-time submissions of the
-- same identity collide instead of duplicating.
CREATE TABLE IF NOT EXISTS contacts (
    id UUID PRIMARY KEY,
    first_name_id BIGINT NOT NULL REFERENCES first_names(id),
    last_name_id BIGINT NOT NULL REFERENCES last_names(id),
    email_id BIGINT NOT NULL REFERENCES emails(id),
    phone_id BIGINT REFERENCES phones(id),
    source_id BIGINT NOT NULL REFERENCES sources(id),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_email_phone
    ON contacts(email_id, phone_id) WHERE phone_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_email_nophone
    ON contacts(email_id) WHERE phone_id IS NULL;

-- Append-only lead event facts. One row per submission; the same person can
-- appear many times.
CREATE TABLE IF NOT EXISTS lead_events (
    id UUID PRIMARY KEY,
    kind TEXT NOT NULL CHECK (kind IN ('contact_message', 'open_house', 'event')),
    first_name_id BIGINT NOT NULL REFERENCES first_names(id),
    last_name_id BIGINT NOT NULL REFERENCES last_names(id),
    email_id BIGINT NOT NULL REFERENCES emails(id),
    phone_id BIGINT REFERENCES phones(id),
    source_id BIGINT NOT NULL REFERENCES sources(id),
    message TEXT,
    address TEXT,
    works_with_realtor BOOLEAN,
    realtor_name TEXT,
    realtor_company TEXT,
    event_name TEXT,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_lead_events_kind ON lead_events(kind);
CREATE INDEX IF NOT EXISTS idx_lead_events_address ON lead_events(address) WHERE address IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_lead_events_event_name ON lead_events(event_name) WHERE event_name IS NOT NULL;

CREATE TABLE IF NOT EXISTS admin_users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS deals (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES admin_users(id),
    contact_id UUID REFERENCES contacts(id),
    title TEXT NOT NULL,
    house_price DOUBLE PRECISION,
    commission_pct DOUBLE PRECISION,
    commission DOUBLE PRECISION,
    stage TEXT NOT NULL DEFAULT 'lead' CHECK (stage IN ('lead', 'client', 'under-contract', 'closed', 'lost')),
    probability INT,
    expected_close_date DATE,
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_deals_user ON deals(user_id);
CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
`

package sqlinline

// QEnsureSchema creates the document tables used by the postgres store driver.
// Records are kept as jsonb so payloads are stored as sent.
const QEnsureSchema = `--sql 22c25550-7fa4-4c7e-9e14-f6aaa002742c
create table if not exists campaigns (
    id uuid primary key,
    doc jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now()
);
create index if not exists campaigns_user_email_idx on campaigns ((doc->>'userEmail'));
create table if not exists donations (
    id uuid primary key,
    doc jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now()
);
create index if not exists donations_donor_email_idx on donations ((doc->>'donorEmail'));
`

package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    role                 TEXT
);

CREATE TABLE IF NOT EXISTS debts (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    type                 TEXT,
    balance              REAL NOT NULL,
    interest_rate        REAL NOT NULL,
    minimum_payment      REAL NOT NULL,
    can_overpay          INTEGER NOT NULL DEFAULT 0,
    overpayment_penalty  REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS expenses (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    category             TEXT,
    description          TEXT,
    amount               REAL NOT NULL,
    is_recurring         INTEGER NOT NULL DEFAULT 0,
    is_subscription      INTEGER NOT NULL DEFAULT 0,
    date                 TEXT,
    merchant             TEXT,
    contract_end_date    TEXT,
    user_id              TEXT
);

CREATE TABLE IF NOT EXISTS income (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    source               TEXT NOT NULL,
    amount               REAL NOT NULL,
    user_id              TEXT
);

CREATE TABLE IF NOT EXISTS goals (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    type                 TEXT,
    target_amount        REAL NOT NULL,
    current_amount       REAL NOT NULL,
    target_date          TEXT,
    monthly_contribution REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS lent_money (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    recipient            TEXT NOT NULL,
    purpose              TEXT,
    total_amount         REAL NOT NULL DEFAULT 0,
    remaining_balance    REAL NOT NULL,
    default_repayment    REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS special_events (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    month                INTEGER NOT NULL,
    budget               REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS profile_config (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    luxury_budget        REAL NOT NULL DEFAULT 0,
    savings_buffer       REAL NOT NULL DEFAULT 0,
    strategy             TEXT NOT NULL DEFAULT 'avalanche'
);
`

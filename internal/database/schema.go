package database

// Schema is the full document-store schema. Every numeric column defaults to
// 0 and every text column defaults to '' so that a persisted record never
// round-trips a NULL back into the API.
const Schema = `
CREATE TABLE IF NOT EXISTS portfolios (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL DEFAULT '',
    goal TEXT NOT NULL DEFAULT '',
    cash_balance REAL NOT NULL DEFAULT 0,
    advice TEXT NOT NULL DEFAULT '',
    portfolio_score REAL NOT NULL DEFAULT 0,
    risk_assessment TEXT NOT NULL DEFAULT '',
    diversification_score REAL NOT NULL DEFAULT 0,
    last_advisory_date TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS positions (
    id TEXT PRIMARY KEY,
    portfolio_id TEXT NOT NULL REFERENCES portfolios(id),
    symbol TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    quantity REAL NOT NULL DEFAULT 0,
    open_price REAL NOT NULL DEFAULT 0,
    current_price REAL NOT NULL DEFAULT 0,
    type TEXT NOT NULL DEFAULT 'stock',
    status TEXT NOT NULL DEFAULT 'open',
    total_value REAL NOT NULL DEFAULT 0,
    gain_loss REAL NOT NULL DEFAULT 0,
    gain_loss_percent REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_positions_portfolio ON positions(portfolio_id);

-- trades and suggested_trades carry no foreign key on portfolio_id: the
-- derivation and conversion flows must persist rows even when the portfolio
-- record does not exist (cash-balance fallback path).
CREATE TABLE IF NOT EXISTS trades (
    id TEXT PRIMARY KEY,
    portfolio_id TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL DEFAULT '',
    symbol TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT 'buy',
    quantity REAL NOT NULL DEFAULT 0,
    price REAL NOT NULL DEFAULT 0,
    date TEXT NOT NULL DEFAULT '',
    fees REAL NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    suggested_trade_id TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_portfolio ON trades(portfolio_id);

CREATE TABLE IF NOT EXISTS suggested_trades (
    id TEXT PRIMARY KEY,
    portfolio_id TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL DEFAULT '',
    symbol TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT 'stock',
    action TEXT NOT NULL DEFAULT 'buy',
    quantity REAL NOT NULL DEFAULT 0,
    estimated_price REAL NOT NULL DEFAULT 0,
    dollar_amount REAL NOT NULL DEFAULT 0,
    allocation_percent REAL NOT NULL DEFAULT 0,
    reasoning TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT 'low',
    risk_level TEXT NOT NULL DEFAULT 'medium',
    status TEXT NOT NULL DEFAULT 'pending',
    source TEXT NOT NULL DEFAULT '',
    dismissal_reason TEXT NOT NULL DEFAULT '',
    converted_trade_id TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT '',
    expires_at TEXT NOT NULL DEFAULT '',
    converted_at TEXT NOT NULL DEFAULT '',
    dismissed_at TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_suggested_trades_portfolio ON suggested_trades(portfolio_id);
CREATE INDEX IF NOT EXISTS idx_suggested_trades_status ON suggested_trades(status);
`

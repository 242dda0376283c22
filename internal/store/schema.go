package store

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- CACHE TABLE (key-value with capture timestamp, used for the showcase)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS cache SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS payload ON cache TYPE string;
    DEFINE FIELD IF NOT EXISTS stored_at ON cache TYPE datetime DEFAULT time::now();

    -- ==========================================================================
    -- WISHLIST TABLE (one record per saved product, keyed by product id)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS wishlist SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS product ON wishlist FLEXIBLE TYPE object;
    DEFINE FIELD IF NOT EXISTS added_at ON wishlist TYPE datetime DEFAULT time::now();
`

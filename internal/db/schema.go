package db

// SchemaSQL contains the database schema initialization SQL for the tables
// this core owns or reads. Domain services own the richer document and
// compliance tables; only the columns read here are defined.
const SchemaSQL = `
    -- ==========================================================================
    -- SESSION TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS session SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS workspace_id ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS user_id ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS memory_handle ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS title ON session TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS started_at ON session TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS last_activity_at ON session TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS message_count ON session TYPE int DEFAULT 0;

    DEFINE INDEX IF NOT EXISTS session_workspace ON session FIELDS workspace_id;
    DEFINE INDEX IF NOT EXISTS session_user ON session FIELDS workspace_id, user_id;

    -- ==========================================================================
    -- MESSAGE TABLE (append-only)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS message SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session ON message TYPE record<session>;
    DEFINE FIELD IF NOT EXISTS role ON message TYPE string ASSERT $value IN ["user", "assistant"];
    DEFINE FIELD IF NOT EXISTS content ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS created_at ON message TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS message_session ON message FIELDS session;

    -- ==========================================================================
    -- MEMBERSHIP TABLE (read-only here, written by the account service)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS membership SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS workspace_id ON membership TYPE string;
    DEFINE FIELD IF NOT EXISTS user_id ON membership TYPE string;
    DEFINE FIELD IF NOT EXISTS role ON membership TYPE string ASSERT $value IN ["owner", "admin", "member"];

    DEFINE INDEX IF NOT EXISTS membership_unique ON membership FIELDS workspace_id, user_id UNIQUE;

    -- ==========================================================================
    -- ARTICLE TABLE (knowledge base, written by the ingestion service)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS article SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON article TYPE string;
    DEFINE FIELD IF NOT EXISTS content ON article TYPE string;
    DEFINE FIELD IF NOT EXISTS framework_id ON article TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS active ON article TYPE bool DEFAULT true;
    DEFINE FIELD IF NOT EXISTS updated_at ON article TYPE datetime DEFAULT time::now();

    -- ==========================================================================
    -- KNOWLEDGE_CHUNK TABLE (vector index over article chunks)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS knowledge_chunk SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS article_id ON knowledge_chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS framework_id ON knowledge_chunk TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS content ON knowledge_chunk TYPE string;
    DEFINE FIELD IF NOT EXISTS embedding ON knowledge_chunk TYPE array<float>;

    DEFINE INDEX IF NOT EXISTS chunk_article ON knowledge_chunk FIELDS article_id;
    DEFINE INDEX IF NOT EXISTS chunk_embedding ON knowledge_chunk FIELDS embedding HNSW DIMENSION 384 DIST COSINE TYPE F32;

    -- ==========================================================================
    -- DOCUMENT TABLE (read-only here, written by the document service)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS document SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS workspace_id ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS filename ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS content_type ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS status ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS uploaded_by ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS embedding ON document TYPE option<array<float>>;
    DEFINE FIELD IF NOT EXISTS created_at ON document TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS document_workspace ON document FIELDS workspace_id;
    DEFINE INDEX IF NOT EXISTS document_embedding ON document FIELDS embedding HNSW DIMENSION 384 DIST COSINE TYPE F32;
`

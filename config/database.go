package config

import (
	"time"

	"github.com/Innayatullahh/skydragon-test/utils"
)

type DatabaseConfig struct {
	URI                string
	MaxPoolSize        uint64
	MinPoolSize        uint64
	MaxConnIdleTime    time.Duration
	ConnectTimeout     time.Duration
	DatabaseName       string
	RetryWrites        bool
	MeetingsCollection string
	UsersCollection    string
	ContactsCollection string
	LeadsCollection    string
	AuditCollection    string
}

func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URI:                utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
		MaxPoolSize:        utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:        utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
		MaxConnIdleTime:    time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second,
		ConnectTimeout:     utils.GetEnvAsDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		DatabaseName:       utils.GetEnvAsString("MONGO_DB", "crm"),
		RetryWrites:        utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
		MeetingsCollection: utils.GetEnvAsString("MEETINGS_COLLECTION", "Meetings"),
		UsersCollection:    utils.GetEnvAsString("USERS_COLLECTION", "User"),
		ContactsCollection: utils.GetEnvAsString("CONTACTS_COLLECTION", "Contacts"),
		LeadsCollection:    utils.GetEnvAsString("LEADS_COLLECTION", "Leads"),
		AuditCollection:    utils.GetEnvAsString("AUDIT_COLLECTION", "MeetingAudit"),
	}
}

// ClientOptions maps the pool settings onto the Mongo client constructor.
func (c DatabaseConfig) ClientOptions() utils.MongoClientOptions {
	return utils.MongoClientOptions{
		URI:             c.URI,
		MaxPoolSize:     c.MaxPoolSize,
		MinPoolSize:     c.MinPoolSize,
		MaxConnIdleTime: c.MaxConnIdleTime,
		ConnectTimeout:  c.ConnectTimeout,
		RetryWrites:     c.RetryWrites,
	}
}

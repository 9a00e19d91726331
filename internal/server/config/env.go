package config

import "github.com/dmitrijs2005/taskboard/internal/flagx"

// parseEnv overlays TASKBOARD_* variables. The unprefixed names (PORT,
// DATABASE_URL, JWT_SECRET, NODE_ENV, CORS_ORIGIN) are honoured as
// fallbacks so existing deployments keep working.
func parseEnv(config *Config) {
	if port, ok := lookupPort(); ok {
		config.EndpointAddrHTTP = ":" + port
	}
	flagx.EnvString(&config.EndpointAddrHTTP, "TASKBOARD_HTTP_ADDR")
	flagx.EnvString(&config.EndpointAddrGRPC, "TASKBOARD_GRPC_ADDR")
	flagx.EnvString(&config.DatabaseDSN, "TASKBOARD_DATABASE_DSN", "DATABASE_URL")
	flagx.EnvString(&config.SecretKey, "TASKBOARD_SECRET_KEY", "JWT_SECRET")
	flagx.EnvDuration(&config.TokenValidityDuration, "TASKBOARD_TOKEN_VALIDITY")
	flagx.EnvInt(&config.BcryptCost, "TASKBOARD_BCRYPT_COST")
	flagx.EnvString(&config.Environment, "TASKBOARD_ENV", "NODE_ENV")
	flagx.EnvString(&config.CORSOrigin, "TASKBOARD_CORS_ORIGIN", "CORS_ORIGIN")
	flagx.EnvString(&config.LogLevel, "TASKBOARD_LOG_LEVEL")
	flagx.EnvString(&config.S3RootUser, "TASKBOARD_S3_USER")
	flagx.EnvString(&config.S3RootPassword, "TASKBOARD_S3_PASSWORD")
	flagx.EnvString(&config.S3Bucket, "TASKBOARD_S3_BUCKET")
	flagx.EnvString(&config.S3Region, "TASKBOARD_S3_REGION")
	flagx.EnvString(&config.S3BaseEndpoint, "TASKBOARD_S3_ENDPOINT")
}

func lookupPort() (string, bool) {
	var port string
	flagx.EnvString(&port, "PORT")
	return port, port != ""
}

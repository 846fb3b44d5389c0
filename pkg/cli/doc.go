// Package cli implements the connaudit command-line interface.
//
// # Commands
//
// report - Snapshot sessions and write the resolved report:
//
//	connaudit report --dsn postgres://monitor@db/prod [--region us-east-1] [--format xlsx|csv|json|yaml]
//
// Writes idle_connections_prod_db.<ext> and idle_connections_with_hostname.<ext>
// to --output-dir when the snapshot has rows, then logs how many addresses
// were mapped to a name.
//
// directories - Print the identity directories:
//
//	connaudit directories [--skip-cloud] [--skip-orchestrator] [--format table|json|yaml|csv]
//
// # Global Flags
//
//	--config, -c   YAML config file (see package config)
//	--env-file     Dotenv file(s) loaded before config; default .env when present
//	--log-level    debug, info, warn, error
//
// Flags override config file values. Identity sources can be disabled with
// --skip-cloud and --skip-orchestrator.
//
// # Environment Variables
//
//	LOG_LEVEL               Logging verbosity
//	CONNAUDIT_CONFIG        Config file path
//	CONNAUDIT_DSN           Store connection string (DATABASE_URL also accepted)
//	CONNAUDIT_OUTPUT_DIR    Artifact directory
//	CONNAUDIT_METRICS_FILE  Prometheus textfile path
//	AWS_REGION              Region for the instance inventory
//	KUBECONFIG              Kubeconfig path
//	PGPASSWORD et al.       Honoured by the PostgreSQL driver
//
// # Exit Codes
//
//	0  Success, including runs with degraded identity sources
//	1  Invalid configuration, store failure or artifact write failure
package cli

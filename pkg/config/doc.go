// Package config loads the run configuration from a YAML file.
//
// References of the form ${VAR} are expanded from the environment before
// decoding, so secrets such as the store password can stay out of the file.
// LoadEnv populates the environment from dotenv files first:
//
//	store:
//	  host: db.internal
//	  port: 5432
//	  user: auditor
//	  password: ${PGPASSWORD}
//	  database: prod
//	  sslmode: require
//	cloud:
//	  region: us-east-1
//	orchestrator:
//	  kubeconfig: ~/.kube/config
//	output:
//	  dir: /var/lib/connaudit
//	  format: xlsx
//	overrides:
//	  10.0.4.20: Batch-Reporter
//
// Unknown keys are rejected.
package config

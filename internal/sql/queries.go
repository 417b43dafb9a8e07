package sql

import "embed"

// Migrations holds the label store DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_run.sql
var RegisterRun string

//go:embed queries/finish_run.sql
var FinishRun string

//go:embed queries/update_run_status.sql
var UpdateRunStatus string

//go:embed queries/delete_run_examples.sql
var DeleteRunExamples string

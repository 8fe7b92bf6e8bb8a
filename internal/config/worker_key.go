package config

type WorkerKeyStruct struct {
	ToolAuditQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ToolAuditQueue: "tool_audit_queue",
}

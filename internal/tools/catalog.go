package tools

import (
	"context"
	"fmt"
)

// domainTool builds a tool whose handler forwards its arguments to one
// external domain service method over the uniform tool-call contract.
// required names arguments that must be present and non-empty.
func domainTool(deps *Dependencies, name, argSpec, description, method string, required ...string) Tool {
	return Tool{
		Name:        name,
		Description: description,
		ArgSpec:     argSpec,
		Run: func(ctx context.Context, req Request, args Args) (any, error) {
			for _, key := range required {
				if args.String(key) == "" {
					return nil, fmt.Errorf("missing required argument %q", key)
				}
			}
			params := map[string]any{"workspace_id": req.WorkspaceID, "user_id": req.UserID}
			for k, v := range args {
				params[k] = v
			}
			return deps.Domain.Call(ctx, method, params)
		},
	}
}

// registerAll wires the full tool catalog. Handlers either delegate to one
// external domain service or run a read-only query; the business logic
// behind each lives outside this core.
func registerAll(r *Registry, deps *Dependencies) {
	// Compliance posture
	r.add(domainTool(deps, "get_compliance_status", "{}",
		"Current overall compliance posture for the workspace", "compliance.status"))
	r.add(domainTool(deps, "get_compliance_score", "{}",
		"Numeric compliance score (0-100) with trend", "compliance.score"))
	r.add(domainTool(deps, "list_frameworks", "{}",
		"Compliance frameworks enabled for the workspace", "compliance.frameworks"))
	r.add(domainTool(deps, `get_framework_progress`, `{"framework": "<framework id>"}`,
		"Completion percentage and gaps for one framework", "compliance.framework_progress", "framework"))
	r.add(domainTool(deps, "get_framework_controls", `{"framework": "<framework id>"}`,
		"Controls of a framework with their implementation state", "compliance.framework_controls", "framework"))
	r.add(domainTool(deps, "get_control_status", `{"control": "<control id>"}`,
		"Detailed status of a single control", "compliance.control_status", "control"))
	r.add(domainTool(deps, "list_controls_needing_attention", "{}",
		"Controls that are failing or missing evidence", "compliance.controls_attention"))

	// Documents
	r.add(Tool{
		Name:        "list_documents",
		Description: "Uploaded compliance documents, most recent first",
		ArgSpec:     `{"limit": <max results, optional>}`,
		Run: func(ctx context.Context, req Request, args Args) (any, error) {
			return deps.Store.ListDocuments(ctx, req.WorkspaceID, args.Int("limit"))
		},
	})
	r.add(Tool{
		Name:        "get_document_status",
		Description: "Processing status of one uploaded document",
		ArgSpec:     `{"document": "<document id or filename>"}`,
		Run: func(ctx context.Context, req Request, args Args) (any, error) {
			doc, err := resolveDocument(ctx, deps, req, args.String("document"))
			if err != nil {
				return nil, err
			}
			return doc, nil
		},
	})
	r.add(Tool{
		Name:        "analyze_document",
		Description: "Run compliance analysis on an uploaded document",
		ArgSpec:     `{"document": "<document id or filename>", "framework": "<optional framework id>"}`,
		Run:         newAnalyzeDocumentHandler(deps),
	})

	// Knowledge base
	r.add(Tool{
		Name:        "search_knowledge",
		Description: "Search the regulatory knowledge base for relevant guidance",
		ArgSpec:     `{"query": "<search text>", "framework": "<optional framework id>"}`,
		Run:         newSearchKnowledgeHandler(deps),
	})

	// Tasks
	r.add(domainTool(deps, "list_tasks", `{"status": "<optional status filter>"}`,
		"Open remediation tasks for the workspace", "tasks.list"))
	r.add(domainTool(deps, "get_task", `{"task": "<task id>"}`,
		"Details of one remediation task", "tasks.get", "task"))
	r.add(domainTool(deps, "create_task", `{"title": "<task title>", "control": "<optional control id>"}`,
		"Create a remediation task", "tasks.create", "title"))
	r.add(domainTool(deps, "update_task_status", `{"task": "<task id>", "status": "<new status>"}`,
		"Update the status of a remediation task", "tasks.update_status", "task", "status"))

	// Evidence
	r.add(domainTool(deps, "list_evidence", `{"control": "<optional control id>"}`,
		"Evidence items collected for the workspace", "evidence.list"))
	r.add(domainTool(deps, "get_evidence_status", `{"evidence": "<evidence id>"}`,
		"Collection status of one evidence item", "evidence.status", "evidence"))

	// Reports
	r.add(domainTool(deps, "generate_report", `{"framework": "<framework id>", "format": "<pdf|csv, optional>"}`,
		"Generate a compliance report for a framework", "reports.generate", "framework"))
	r.add(domainTool(deps, "list_reports", "{}",
		"Previously generated reports", "reports.list"))
	r.add(domainTool(deps, "get_report_status", `{"report": "<report id>"}`,
		"Generation status of one report", "reports.status", "report"))

	// Integrations
	r.add(domainTool(deps, "list_integrations", "{}",
		"Connected integrations and their health", "integrations.list"))
	r.add(domainTool(deps, "get_integration_status", `{"integration": "<integration id>"}`,
		"Sync status of one integration", "integrations.status", "integration"))

	// Risk register
	r.add(domainTool(deps, "list_risks", `{"severity": "<optional severity filter>"}`,
		"Entries of the workspace risk register", "risks.list"))
	r.add(domainTool(deps, "get_risk_details", `{"risk": "<risk id>"}`,
		"Details and treatment plan of one risk", "risks.get", "risk"))

	// Workspace
	r.add(domainTool(deps, "get_workspace_summary", "{}",
		"High-level workspace summary: score, open tasks, recent activity", "workspace.summary"))
	r.add(domainTool(deps, "list_team_members", "{}",
		"Workspace members and their roles", "workspace.members"))
	r.add(domainTool(deps, "get_audit_events", `{"limit": <max events, optional>}`,
		"Recent audit log events for the workspace", "workspace.audit_events"))

	// Notifications
	r.add(domainTool(deps, "send_notification", `{"recipient": "<user id>", "message": "<text>"}`,
		"Send an in-app notification to a workspace member", "notifications.send", "recipient", "message"))
}

// newSearchKnowledgeHandler backs the search_knowledge tool with the
// retriever. Retrieval failure propagates so the dispatcher surfaces an
// explicit unavailable message instead of an empty answer.
func newSearchKnowledgeHandler(deps *Dependencies) Handler {
	return func(ctx context.Context, req Request, args Args) (any, error) {
		query := args.String("query")
		if query == "" {
			return nil, fmt.Errorf("missing required argument %q", "query")
		}

		var framework *string
		if f := args.String("framework"); f != "" {
			framework = &f
		}

		articles, err := deps.Knowledge.Retrieve(ctx, query, framework)
		if err != nil {
			return nil, err
		}
		return articles, nil
	}
}

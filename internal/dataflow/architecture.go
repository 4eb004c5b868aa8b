package dataflow

import (
	"fmt"
	"path"
	"strings"

	"lineage-scan/internal/model"
)

var (
	eventKeywords = []string{"event", "listener", "subscriber", "publisher", "handler"}
	etlKeywords   = []string{"etl", "pipeline", "transform", "processor"}
	frontends     = []string{string(model.FrameworkReact), string(model.FrameworkAngular), string(model.FrameworkVue)}
	backends      = []string{string(model.FrameworkDjango), string(model.FrameworkFlask), string(model.FrameworkExpress), string(model.FrameworkSpring)}
)

// InferArchitecture evaluates every architecture heuristic over the file
// list and extracted classes. Findings are independent of each other.
func InferArchitecture(files []model.SourceFile, classes []model.Class) []model.ArchitectureFinding {
	findings := []model.ArchitectureFinding{}
	add := func(name string, c model.Confidence, evidence string) {
		findings = append(findings, model.ArchitectureFinding{Name: name, Confidence: c, Evidence: evidence})
	}

	if f, ok := mvc(files, classes); ok {
		findings = append(findings, f)
	}

	var services, dockers, apiPaths, restFiles, eventPaths, queueFiles, etlPaths, multiDB, front, back int
	for _, f := range files {
		p := strings.ToLower(f.Path)
		name := strings.ToLower(f.Name)
		if strings.Contains(p, "service") {
			services++
		}
		if strings.Contains(name, "dockerfile") || strings.Contains(name, "docker-compose") {
			dockers++
		}
		if strings.Contains(p, "api") || strings.Contains(p, "endpoint") {
			apiPaths++
		}
		if contains(f.APIs, string(model.APIRest)) {
			restFiles++
		}
		if containsAnyOf(p, eventKeywords) {
			eventPaths++
		}
		if contains(f.APIs, string(model.APIMessageQueue)) {
			queueFiles++
		}
		if containsAnyOf(p, etlKeywords) {
			etlPaths++
		}
		if len(f.DBTypes) > 1 {
			multiDB++
		}
		if hasAny(f.Frameworks, frontends) {
			front++
		}
		if hasAny(f.Frameworks, backends) {
			back++
		}
	}

	if dockers > 2 && services > 3 {
		add("Microservices Architecture", model.ConfidenceMedium,
			fmt.Sprintf("Multiple Docker files (%d) and service components (%d)", dockers, services))
	}
	if restFiles > 3 || apiPaths > 3 {
		add("REST API Architecture", model.ConfidenceHigh, "Multiple API endpoints and REST API usage detected")
	}
	if queueFiles > 1 || eventPaths > 3 {
		add("Event-driven Architecture", model.ConfidenceMedium, "Event-related components and message queue usage detected")
	}
	if etlPaths > 1 || multiDB > 1 {
		add("Data Pipeline/ETL Architecture", model.ConfidenceMedium, "ETL components and multiple database connections in same files")
	}
	if front > 0 && back > 0 {
		add("Client-Server Architecture", model.ConfidenceHigh,
			fmt.Sprintf("Both frontend (%d files) and backend (%d files) frameworks detected", front, back))
	}
	return findings
}

func mvc(files []model.SourceFile, classes []model.Class) (model.ArchitectureFinding, bool) {
	var models, views, controllers bool
	for _, f := range files {
		dirs := strings.Split(strings.ToLower(path.Dir(f.Path)), "/")
		switch {
		case contains(dirs, "model") || contains(dirs, "models"):
			models = true
		case contains(dirs, "view") || contains(dirs, "views"):
			views = true
		case contains(dirs, "controller") || contains(dirs, "controllers"):
			controllers = true
		}
	}
	if models && views && controllers {
		return model.ArchitectureFinding{
			Name:       "MVC Architecture",
			Confidence: model.ConfidenceHigh,
			Evidence:   "Directory structure contains models, views, and controllers",
		}, true
	}

	var modelCls, viewCls, controllerCls bool
	for _, c := range classes {
		n := strings.ToLower(c.Name)
		modelCls = modelCls || strings.Contains(n, "model")
		viewCls = viewCls || strings.Contains(n, "view")
		controllerCls = controllerCls || strings.Contains(n, "controller")
	}
	if modelCls && viewCls && controllerCls {
		return model.ArchitectureFinding{
			Name:       "MVC Architecture",
			Confidence: model.ConfidenceMedium,
			Evidence:   "Classes suggest Model-View-Controller pattern",
		}, true
	}
	return model.ArchitectureFinding{}, false
}

func containsAnyOf(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

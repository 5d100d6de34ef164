// Package testkit — suite.go
//
// Suite orchestration for data-driven REST API testing.

package testkit

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angotech/angotech/pkg/router"
)

// ConfigEntry represents one endpoint group in the master test_scenarios.json.
type ConfigEntry struct {
	ServiceName       string `json:"serviceName"`
	FilePath          string `json:"filePath"`
	ScenariosFileName string `json:"scenariosFileName"`
	ServiceURL        string `json:"serviceUrl"`
	HTTPMethodType    string `json:"httpMethodType"`  // e.g. "GET", "POST"
	WorkflowService   string `json:"workflowService"` // map key for the handler under test
	IsNetUtilsUsed    bool   `json:"isNetUtilsUsed,omitempty"`
}

// RunSuite executes a suite of scenarios driven by a master JSON config file.
// Keys in handlers correspond to ConfigEntry.WorkflowService.
func RunSuite(t *testing.T, masterConfigPath string, handlers map[string]http.HandlerFunc) {
	t.Helper()

	absMasterPath, err := filepath.Abs(masterConfigPath)
	if err != nil {
		t.Fatalf("testkit: resolve master config path %q: %v", masterConfigPath, err)
	}

	data, err := os.ReadFile(absMasterPath)
	if err != nil {
		t.Fatalf("testkit: read master config %q: %v", absMasterPath, err)
	}

	var entries []ConfigEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("testkit: parse master config %q: %v", absMasterPath, err)
	}

	baseDir := filepath.Dir(absMasterPath)

	for _, entry := range entries {
		t.Run(entry.ServiceName, func(t *testing.T) {
			handlerFunc, ok := handlers[entry.WorkflowService]
			if !ok {
				t.Fatalf("testkit: handler %q not found in provided map", entry.WorkflowService)
			}

			// Fresh throwaway router per entry keeps suites isolated.
			r := router.New()
			url := entry.ServiceURL
			if url != "" && url[0] != '/' {
				url = "/" + url
			}
			switch strings.ToUpper(entry.HTTPMethodType) {
			case "GET":
				r.Get(url, entry.WorkflowService, handlerFunc)
			case "POST":
				r.Post(url, entry.WorkflowService, handlerFunc)
			case "PUT":
				r.Put(url, entry.WorkflowService, handlerFunc)
			case "PATCH":
				r.Patch(url, entry.WorkflowService, handlerFunc)
			case "DELETE":
				r.Delete(url, entry.WorkflowService, handlerFunc)
			default:
				r.Get(url, entry.WorkflowService, handlerFunc) // fallback
			}

			// FilePath is resolved relative to the master config first,
			// then relative to the test's working directory.
			scenarioPath := filepath.Join(baseDir, entry.FilePath, entry.ScenariosFileName)
			if _, err := os.Stat(scenarioPath); os.IsNotExist(err) {
				scenarioPath = filepath.Join(entry.FilePath, entry.ScenariosFileName)
			}

			scenarios, err := LoadScenarioArray(scenarioPath)
			if err != nil {
				t.Fatalf("testkit: load scenario array %q: %v", scenarioPath, err)
			}

			for _, s := range scenarios {
				// Entry-level routing fills any gaps in the scenario.
				if s.RequestURL == "" {
					s.RequestURL = url
				}
				if s.RequestMethod == "" {
					s.RequestMethod = entry.HTTPMethodType
				}

				t.Run(s.Name, func(t *testing.T) {
					runScenario(t, r.Handler(), s)
				})
			}
		})
	}
}

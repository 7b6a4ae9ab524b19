package runs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dataset-reconciler/core/runner"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupApp(t *testing.T, db *gorm.DB, cfg runner.Config) *fiber.App {
	t.Helper()

	feature := NewFeature(nil, "", zap.NewNop(), db, cfg)
	app := fiber.New()
	assert.NoError(t, feature.Load(app))
	return app
}

func TestHandleCreateRun(t *testing.T) {
	dir := t.TempDir()
	oldPath, newPath := fixturePaths(t, dir)
	app := setupApp(t, setupHistoryDB(t), runner.Config{OutputDir: dir})

	body, _ := json.Marshal(RunRequest{
		OldPath:    oldPath,
		NewPath:    newPath,
		KeyColumns: "Name",
	})
	req := httptest.NewRequest(http.MethodPost, "/runs/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var run Run
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, StatusSucceeded, run.Status)
	assert.Equal(t, 2, run.TotalChanges)
}

func TestHandleCreateRunValidation(t *testing.T) {
	app := setupApp(t, nil, runner.Config{})

	body := []byte(`{"old_path": "only-one-side.csv"}`)
	req := httptest.NewRequest(http.MethodPost, "/runs/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleCreateRunFailure(t *testing.T) {
	dir := t.TempDir()
	app := setupApp(t, nil, runner.Config{OutputDir: dir})

	// A csv on the new side is rejected before any read.
	body, _ := json.Marshal(RunRequest{
		OldPath:    "old.csv",
		NewPath:    "new.csv",
		KeyColumns: "Name",
	})
	req := httptest.NewRequest(http.MethodPost, "/runs/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleListRuns(t *testing.T) {
	db := setupHistoryDB(t)
	svc := NewService(nil, "", zap.NewNop(), db, runner.Config{})
	svc.persist(&Run{ID: "run-1", Status: StatusSucceeded})
	svc.persist(&Run{ID: "run-2", Status: StatusFailed})

	app := setupApp(t, db, runner.Config{})
	req := httptest.NewRequest(http.MethodGet, "/runs/", nil)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var records []Run
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	assert.Len(t, records, 2)
}

func TestHandleListRunsWithoutDatabase(t *testing.T) {
	app := setupApp(t, nil, runner.Config{})
	req := httptest.NewRequest(http.MethodGet, "/runs/", nil)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleGetRun(t *testing.T) {
	db := setupHistoryDB(t)
	svc := NewService(nil, "", zap.NewNop(), db, runner.Config{})
	svc.persist(&Run{ID: "run-1", Status: StatusSucceeded, TotalChanges: 7})

	app := setupApp(t, db, runner.Config{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/runs/run-1", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var record Run
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	assert.Equal(t, 7, record.TotalChanges)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/runs/absent", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

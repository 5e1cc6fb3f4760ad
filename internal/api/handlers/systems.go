package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"microgrid-sim/internal/api/models"
	"microgrid-sim/internal/config"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

// SystemDir returns the directory holding system preset YAML files.
func SystemDir() string {
	if dir := os.Getenv("SYSTEM_DIR"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "./examples/systems"
	}
	return filepath.Join(wd, "examples", "systems")
}

// SystemHandler handles system preset requests
type SystemHandler struct {
	systemDir string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler() *SystemHandler {
	dir := SystemDir()
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.Printf("SystemHandler: using system directory: %s", dir)
	return &SystemHandler{systemDir: dir}
}

// ListSystems handles GET /api/v1/systems
func (h *SystemHandler) ListSystems(c *gin.Context) {
	systems := []models.SystemInfo{}

	entries, err := os.ReadDir(h.systemDir)
	if err != nil {
		log.Printf("SystemHandler: failed to read system directory %s: %v", h.systemDir, err)
		c.JSON(http.StatusOK, gin.H{"systems": systems})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(h.systemDir, entry.Name())
		info, err := loadSystemInfo(path, entry.Name())
		if err != nil {
			log.Printf("SystemHandler: failed to load system file %s: %v", path, err)
			continue // Skip invalid files
		}
		systems = append(systems, *info)
	}

	c.JSON(http.StatusOK, gin.H{"systems": systems})
}

func loadSystemInfo(path, filename string) (*models.SystemInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		System config.SystemConfig `yaml:"system"`
	}
	if err := yaml.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}

	id := strings.TrimSuffix(filename, ".yaml")
	name := wrapper.System.Name
	if name == "" {
		name = id
	}

	return &models.SystemInfo{
		ID:   id,
		Name: name,
		File: path,
		Specs: models.SystemSpecs{
			PVPeakKW:           wrapper.System.PVPeakKW,
			BatteryCapacityKWh: wrapper.System.BatteryCapacityKWh,
		},
	}, nil
}

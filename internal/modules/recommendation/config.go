package recommendation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sunudico/sunudico-backend/internal/modules/recommendation/steps"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

// LoadParams reads scoring/TTL tuning from the YAML file named by
// RECOMMENDER_CONFIG_PATH. Missing file or unset variable means compiled-in
// defaults; a present but unreadable file is an error so a typo in production
// config does not silently fall back.
func LoadParams(log *logger.Logger) (steps.Params, error) {
	params := steps.DefaultParams()

	path := strings.TrimSpace(os.Getenv("RECOMMENDER_CONFIG_PATH"))
	if path == "" {
		return params, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("read recommender config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &params); err != nil {
		return params, fmt.Errorf("parse recommender config: %w", err)
	}
	if log != nil {
		log.Info("Loaded recommender tuning", "path", path)
	}
	return params, nil
}

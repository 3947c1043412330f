package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// WritePlan 将分页结果输出为 JSON（或按扩展名输出 YAML），便于调试或可视化。
func WritePlan(plan *Plan, path string) error {
	if plan == nil {
		return nil
	}
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(plan)
	default:
		data, err = json.MarshalIndent(plan, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

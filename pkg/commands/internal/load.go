package internal

import (
	"path/filepath"

	"github.com/arthur-debert/stager/pkg/config"
	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/arthur-debert/stager/pkg/spec"
	"github.com/arthur-debert/stager/pkg/template"
)

// LoadStageMap reads stageFile and renders it against the default template
// context extended with vars.
func LoadStageMap(stageFile string, vars map[string]string) (*spec.StageMap, error) {
	logger := logging.GetLogger("commands.load")

	mapStage, err := config.LoadMapStage(stageFile)
	if err != nil {
		return nil, err
	}

	engine := template.NewEngine(template.DefaultContext().With(vars))
	stageMap, err := mapStage.Render(engine)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("stage_file", stageFile).
		Int("targets", stageMap.Len()).
		Strs("variables", engine.Context().Keys()).
		Msg("Rendered stage file")
	return stageMap, nil
}

// ResolveStageFile loads and resolves stageFile into specifications.
func ResolveStageFile(stageFile string, vars map[string]string) ([]spec.Specification, error) {
	stageMap, err := LoadStageMap(stageFile, vars)
	if err != nil {
		return nil, err
	}
	return stageMap.Resolve("")
}

// AbsRoot returns root as an absolute slash-separated path.
func AbsRoot(root string) (string, error) {
	if root == "" {
		return "", errors.New(errors.ErrInvalidConfiguration, "stage root cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidConfiguration,
			"cannot resolve stage root %q", root).WithDetail("root", root)
	}
	return filepath.ToSlash(abs), nil
}

// Package prune removes the files of template features a project was
// generated without.
//
// Removal is declarative: Plan turns the resolved options into a list of
// operations, Apply checks every required target exists and only then
// deletes anything. A missing required target means the template and this
// catalog have drifted apart, and nothing is removed.
package prune

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// Plan evaluates the catalog against opts. Each target appears at most
// once; operations whose target lies inside a directory that is removed
// anyway are marked skipped.
func Plan(opts config.Options) []types.Operation {
	return plan(Catalog, opts)
}

func plan(catalog []Feature, opts config.Options) []types.Operation {
	var ops []types.Operation
	seen := map[string]bool{}

	for _, feature := range catalog {
		if !feature.Disabled(opts) {
			continue
		}
		for _, op := range feature.Operations(opts.ProjectSlug) {
			op.Target = filepath.Clean(op.Target)
			if seen[op.Target] {
				continue
			}
			seen[op.Target] = true
			op.Feature = feature.Name
			if op.Description == "" {
				op.Description = describe(op)
			}
			ops = append(ops, op)
		}
	}

	for i := range ops {
		if dir, ok := coveredBy(ops, i); ok {
			ops[i].Status = types.StatusSkipped
			ops[i].Description = fmt.Sprintf("%s (covered by %s)", ops[i].Description, dir)
		}
	}
	return ops
}

// coveredBy reports the directory removal in ops that contains ops[i].
func coveredBy(ops []types.Operation, i int) (string, bool) {
	for j, other := range ops {
		if j == i || other.Type != types.OperationDeleteDir {
			continue
		}
		if within(ops[i].Target, other.Target) {
			return other.Target, true
		}
	}
	return "", false
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func describe(op types.Operation) string {
	switch op.Type {
	case types.OperationDeleteDir:
		return "remove directory " + op.Target
	default:
		return "remove " + op.Target
	}
}

// Result summarises an Apply call.
type Result struct {
	Removed []string
	Skipped []string
}

// Apply executes the ready operations of plan under root. With dryRun set
// targets are checked but nothing is removed.
func Apply(fsys types.FS, root string, plan []types.Operation, dryRun bool) (*Result, error) {
	logger := logging.GetLogger("prune")
	result := &Result{}

	var ready []types.Operation
	for _, op := range plan {
		if op.Status != types.StatusReady {
			result.Skipped = append(result.Skipped, op.Target)
			continue
		}
		exists, err := checkTarget(fsys, root, op)
		if err != nil {
			return nil, err
		}
		if !exists {
			logger.Debug().Str("target", op.Target).Msg("Optional target absent, skipping")
			result.Skipped = append(result.Skipped, op.Target)
			continue
		}
		ready = append(ready, op)
	}

	for _, op := range ready {
		logger.Info().
			Str("feature", op.Feature).
			Str("type", string(op.Type)).
			Str("target", op.Target).
			Bool("dryRun", dryRun).
			Msg("Removing")
	}

	if dryRun {
		for _, op := range ready {
			result.Removed = append(result.Removed, op.Target)
		}
		return result, nil
	}

	removed, err := execute(fsys, root, ready)
	result.Removed = append(result.Removed, removed...)
	return result, err
}

// execute runs the removals as one synthfs pipeline. Removal goes through
// fsys so the in-memory filesystem used by tests sees the same operations.
// On failure it returns the targets synthfs reports as removed.
func execute(fsys types.FS, root string, ready []types.Operation) ([]string, error) {
	if len(ready) == 0 {
		return nil, nil
	}
	logger := logging.GetLogger("prune")

	sfs := synthfs.New()
	index := make(map[synthfs.OperationID]int, len(ready))
	ops := make([]synthfs.Operation, 0, len(ready))
	for i, op := range ready {
		id := fmt.Sprintf("prune_%s_%d_%s", op.Feature, i, filepath.Base(op.Target))
		synthOp := sfs.CustomOperationWithID(id, removal(fsys, root, op))
		index[synthOp.ID()] = i
		ops = append(ops, synthOp)
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = false

	logger.Debug().Int("operationCount", len(ops)).Msg("Executing removals")
	res, err := synthfs.RunWithOptions(context.Background(), pipelineFS(), options, ops...)

	done := make([]bool, len(ready))
	failed := -1
	if res != nil {
		for _, opResult := range res.GetOperations() {
			r, ok := opResult.(synthfs.OperationResult)
			if !ok {
				continue
			}
			i, known := index[r.OperationID]
			if !known {
				continue
			}
			if r.Status == synthfs.StatusSuccess {
				done[i] = true
			} else if failed < 0 || i < failed {
				failed = i
			}
		}
	}

	var removed []string
	for i, op := range ready {
		if done[i] || err == nil {
			removed = append(removed, op.Target)
		}
	}

	if err != nil {
		if failed < 0 {
			return removed, errors.Wrap(err, errors.ErrFileRemove, "cannot remove project files")
		}
		op := ready[failed]
		return removed, errors.Wrapf(err, errors.ErrFileRemove, "cannot %s", op.Description).
			WithDetail("feature", op.Feature)
	}
	return removed, nil
}

// removal returns the synthfs body deleting op's target.
func removal(fsys types.FS, root string, op types.Operation) func(context.Context, filesystem.FileSystem) error {
	path := filepath.Join(root, op.Target)
	return func(ctx context.Context, _ filesystem.FileSystem) error {
		if op.Type == types.OperationDeleteDir {
			return fsys.RemoveAll(path)
		}
		return fsys.Remove(path)
	}
}

// pipelineFS is the filesystem handed to the synthfs executor. The prune
// operations never touch it directly.
func pipelineFS() filesystem.FullFileSystem {
	return synthfs.NewPathAwareFileSystem(filesystem.NewOSFileSystem("/"), "/").WithAbsolutePaths()
}

// checkTarget verifies op can run. It returns false for optional targets
// that are absent.
func checkTarget(fsys types.FS, root string, op types.Operation) (bool, error) {
	path := filepath.Join(root, op.Target)
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if op.Optional {
				return false, nil
			}
			return false, errors.Newf(errors.ErrTemplateDrift,
				"%s: expected %s to exist", op.Feature, op.Target).
				WithDetail("feature", op.Feature).
				WithDetail("path", path)
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}

	wantDir := op.Type == types.OperationDeleteDir
	if info.IsDir() != wantDir {
		kind := "a file"
		if wantDir {
			kind = "a directory"
		}
		return false, errors.Newf(errors.ErrTemplateDrift,
			"%s: expected %s to be %s", op.Feature, op.Target, kind).
			WithDetail("feature", op.Feature).
			WithDetail("path", path)
	}
	return true, nil
}

// Markdown documents the catalog for slug.
func Markdown(slug string) string {
	var b strings.Builder
	b.WriteString("# Optional features\n\n")
	b.WriteString("Files removed from a generated project when a feature is turned off.\n")
	for _, feature := range Catalog {
		fmt.Fprintf(&b, "\n## %s\n\nRemoved when `%s`:\n\n", feature.Name, feature.Condition)
		for _, op := range feature.Operations(slug) {
			suffix := ""
			if op.Type == types.OperationDeleteDir {
				suffix = "/"
			}
			note := ""
			if op.Optional {
				note = " (if present)"
			}
			fmt.Fprintf(&b, "- `%s%s`%s\n", filepath.ToSlash(op.Target), suffix, note)
		}
	}
	return b.String()
}

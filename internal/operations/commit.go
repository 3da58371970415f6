package operations

import (
	"log/slog"
	"os"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
	"github.com/VRaz104/Business-Reporting-Tool/internal/infrastructure"
)

// renameFile is swapped in tests to simulate a failing move
var renameFile = os.Rename

// commitArtifacts moves every staged artifact to its final path. Existing
// files are never overwritten. If a move fails the artifacts already moved are
// removed again, so either every artifact is committed or none is.
func commitArtifacts(artifacts []Artifact, logger *slog.Logger) error {
	for _, artifact := range artifacts {
		if _, err := os.Lstat(artifact.FinalPath); err == nil {
			return errors.NewStorageError("output file already exists", nil).
				WithContext("artifact", artifact.Kind).
				WithContext("path", artifact.FinalPath)
		}
	}

	committed := make([]Artifact, 0, len(artifacts))
	for _, artifact := range artifacts {
		if err := renameFile(artifact.StagedPath, artifact.FinalPath); err != nil {
			rollbackArtifacts(committed, logger)
			return errors.NewStorageError("failed to commit output file", err).
				WithContext("artifact", artifact.Kind).
				WithContext("path", artifact.FinalPath).
				WithContext("rolled_back", len(committed))
		}
		committed = append(committed, artifact)
	}
	return nil
}

// rollbackArtifacts removes committed artifacts after a failed commit
func rollbackArtifacts(committed []Artifact, logger *slog.Logger) {
	for _, artifact := range committed {
		if err := os.Remove(artifact.FinalPath); err != nil && !os.IsNotExist(err) {
			infrastructure.WithError(logger, err).Error("Failed to roll back committed output",
				slog.String("path", artifact.FinalPath))
			continue
		}
		logger.Warn("Rolled back committed output",
			slog.String("path", artifact.FinalPath))
	}
}

// removeStaging deletes the run's staging directory and anything left in it
func removeStaging(state *OperationState, logger *slog.Logger) {
	if state.StagingDir == "" {
		return
	}
	if err := os.RemoveAll(state.StagingDir); err != nil {
		infrastructure.WithError(logger, err).Warn("Failed to remove staging directory",
			slog.String("staging_dir", state.StagingDir))
		return
	}
	logger.Debug("Staging directory removed",
		slog.String("staging_dir", state.StagingDir))
}

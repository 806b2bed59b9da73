// Copyright 2026 ShipKit HQ
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package release

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shipkithq/shipkit/internal/config"
	shiperrors "github.com/shipkithq/shipkit/internal/errors"
	"github.com/shipkithq/shipkit/internal/forge"
	"github.com/shipkithq/shipkit/internal/gitcmd"
	"github.com/shipkithq/shipkit/internal/history"
	"github.com/shipkithq/shipkit/internal/index"
	"github.com/shipkithq/shipkit/internal/report"
	"github.com/shipkithq/shipkit/internal/semver"
	"github.com/shipkithq/shipkit/internal/state"
	"github.com/shipkithq/shipkit/internal/versionfile"
)

// Phase names as they appear in reports and progress output.
const (
	PhaseVersionRead   = "version-read"
	PhaseGuardsPassed  = "guards-passed"
	PhaseTagged        = "tagged"
	PhasePublished     = "published"
	PhaseVersionBumped = "version-bumped"
)

// ArtifactBuilder builds the distributable package and returns the
// artifact paths.
type ArtifactBuilder interface {
	Build(ctx context.Context) ([]string, error)
}

// ArtifactUploader uploads one artifact to the package index.
type ArtifactUploader interface {
	Upload(ctx context.Context, artifactPath string, meta index.UploadMetadata) error
}

// Recorder persists release attempts to the ledger.
type Recorder interface {
	Record(e history.Entry) error
}

// Workflow wires the release procedure together. All collaborators are
// interfaces so the sequence can be tested without a network, a package
// index, or (mostly) a real repository.
type Workflow struct {
	Config   *config.Config
	Repo     gitcmd.Repository
	Forge    forge.Client // nil disables the remote guard
	Builder  ArtifactBuilder
	Uploader ArtifactUploader
	Ledger   Recorder // nil disables ledger recording

	StateFile string
	LockFile  string
	Policy    semver.Policy
	DryRun    bool

	// Stderr receives progress output; defaults to os.Stderr.
	Stderr io.Writer
}

func (w *Workflow) stderr() io.Writer {
	if w.Stderr != nil {
		return w.Stderr
	}
	return os.Stderr
}

func (w *Workflow) source() versionfile.Source {
	return versionfile.Source{
		Path:    w.Config.Project.VersionFile,
		Pattern: w.Config.Project.VersionPattern,
	}
}

// CheckGuards runs the guard phase only: read the version, check tag
// uniqueness (local and, when configured, remote), check the working tree,
// and check for a pending release. It mutates nothing, so running it twice
// in a row without an intervening state change produces the same verdict.
func (w *Workflow) CheckGuards(ctx context.Context) (semver.Version, error) {
	pending, err := state.Load(w.StateFile)
	if err != nil {
		return semver.Version{}, err
	}
	if pending != nil {
		return semver.Version{}, fmt.Errorf("release %s is pending (phase %s): %w",
			pending.Tag, pending.Phase, shiperrors.ErrReleaseInProgress)
	}

	current, err := w.source().Read()
	if err != nil {
		return semver.Version{}, err
	}

	if err := w.guards(ctx, w.Config.TagName(current)); err != nil {
		return current, err
	}
	return current, nil
}

// guards verifies the tag-uniqueness and clean-tree preconditions. All
// checks run before any mutation; the cheapest and most local checks run
// first.
func (w *Workflow) guards(ctx context.Context, tag string) error {
	exists, err := w.Repo.TagExists(ctx, tag)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("tag %s: %w", tag, shiperrors.ErrTagExists)
	}

	clean, err := w.Repo.IsClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return fmt.Errorf("commit or stash changes before releasing: %w", shiperrors.ErrDirtyWorktree)
	}

	if w.Forge != nil {
		remoteTag, err := w.Forge.TagExists(ctx, tag)
		if err != nil {
			return fmt.Errorf("remote tag guard: %w", err)
		}
		if remoteTag {
			return fmt.Errorf("tag %s: %w", tag, shiperrors.ErrRemoteTagExists)
		}
		released, err := w.Forge.ReleaseExists(ctx, tag)
		if err != nil {
			return fmt.Errorf("remote release guard: %w", err)
		}
		if released {
			return fmt.Errorf("release %s: %w", tag, shiperrors.ErrRemoteTagExists)
		}
	}

	return nil
}

// Run executes the full workflow. On success the returned report has
// outcome "released"; on a dry run, "dry-run". Failures return the error
// alongside a report describing how far the run got.
func (w *Workflow) Run(ctx context.Context) (*report.ReleaseReport, error) {
	tracker := report.New()
	startedAt := time.Now()

	lock, err := AcquireLock(w.LockFile)
	if err != nil {
		return w.finish(tracker, runInfo{}, history.OutcomeAborted, err)
	}
	defer func() { _ = lock.Release() }()

	current, err := w.CheckGuards(ctx)
	if err != nil {
		info := runInfo{version: current}
		return w.finish(tracker, info, history.OutcomeAborted, err)
	}
	tracker.CompletePhase(PhaseVersionRead)
	tracker.CompletePhase(PhaseGuardsPassed)

	next := current.Bump(w.Policy)
	tag := w.Config.TagName(current)
	info := runInfo{version: current, next: next, tag: tag, startedAt: startedAt}

	fmt.Fprintf(w.stderr(), "Releasing %s as %s (next development version %s)\n", current, tag, next)

	if w.DryRun {
		fmt.Fprintf(w.stderr(), "Dry run: would tag %s, publish, and bump %s -> %s\n",
			tag, current, next)
		return w.finish(tracker, info, "", nil)
	}

	head, err := w.Repo.Head(ctx)
	if err != nil {
		return w.finish(tracker, info, history.OutcomeAborted, err)
	}
	info.commit = head

	// Tag and push first: the durable record of what was released must
	// exist before anything is published under its name.
	if err := w.Repo.CreateTag(ctx, tag, "release "+current.String()); err != nil {
		return w.finish(tracker, info, history.OutcomeFailed, err)
	}
	if err := w.Repo.PushTag(ctx, w.Config.Git.Remote, tag); err != nil {
		return w.finish(tracker, info, history.OutcomeFailed, err)
	}

	pending := &state.ReleaseState{
		Project:        w.Config.Project.Name,
		ReleaseVersion: current.String(),
		NextVersion:    next.String(),
		Tag:            tag,
		Commit:         head,
		Phase:          state.PhaseTagged,
		StartedAt:      startedAt,
		TaggedAt:       time.Now(),
	}
	if err := state.Save(pending, w.StateFile); err != nil {
		return w.finish(tracker, info, history.OutcomeFailed, err)
	}
	tracker.CompletePhase(PhaseTagged)
	fmt.Fprintf(w.stderr(), "Tagged %s at %.10s and pushed to %s\n", tag, head, w.Config.Git.Remote)

	artifacts, err := w.publish(ctx, current)
	if err != nil {
		fmt.Fprintf(w.stderr(), "Publish failed; tag %s remains. Run `shipkit status` and `shipkit release --resume` after fixing the cause.\n", tag)
		return w.finish(tracker, info, history.OutcomeFailed, err)
	}
	info.artifacts = artifacts

	pending.Phase = state.PhasePublished
	if err := state.Save(pending, w.StateFile); err != nil {
		return w.finish(tracker, info, history.OutcomeFailed, err)
	}
	tracker.CompletePhase(PhasePublished)

	if err := w.bumpAndCommit(ctx, current, next); err != nil {
		return w.finish(tracker, info, history.OutcomeFailed, err)
	}
	if err := state.Delete(w.StateFile); err != nil {
		return w.finish(tracker, info, history.OutcomeFailed, err)
	}
	tracker.CompletePhase(PhaseVersionBumped)

	fmt.Fprintf(w.stderr(), "Released %s; version source now reads %s\n", tag, next)
	return w.finish(tracker, info, history.OutcomeReleased, nil)
}

// Resume completes a release that tagged (and possibly published) but did
// not finish. The publish step is re-run only if it had not succeeded.
func (w *Workflow) Resume(ctx context.Context) (*report.ReleaseReport, error) {
	tracker := report.New()

	lock, err := AcquireLock(w.LockFile)
	if err != nil {
		return w.finish(tracker, runInfo{}, history.OutcomeAborted, err)
	}
	defer func() { _ = lock.Release() }()

	pending, err := state.Load(w.StateFile)
	if err != nil {
		return w.finish(tracker, runInfo{}, history.OutcomeAborted, err)
	}
	if pending == nil {
		return w.finish(tracker, runInfo{}, history.OutcomeAborted,
			fmt.Errorf("no pending release to resume"))
	}

	current, err := semver.Parse(pending.ReleaseVersion)
	if err != nil {
		return w.finish(tracker, runInfo{}, history.OutcomeAborted,
			fmt.Errorf("pending state has invalid version %q: %w", pending.ReleaseVersion, err))
	}
	next, err := semver.Parse(pending.NextVersion)
	if err != nil {
		return w.finish(tracker, runInfo{}, history.OutcomeAborted,
			fmt.Errorf("pending state has invalid next version %q: %w", pending.NextVersion, err))
	}
	info := runInfo{
		version:   current,
		next:      next,
		tag:       pending.Tag,
		commit:    pending.Commit,
		startedAt: pending.StartedAt,
	}

	// The tag must still exist; otherwise the state file is stale.
	exists, err := w.Repo.TagExists(ctx, pending.Tag)
	if err != nil {
		return w.finish(tracker, info, history.OutcomeAborted, err)
	}
	if !exists {
		return w.finish(tracker, info, history.OutcomeAborted,
			fmt.Errorf("pending state names tag %s but it does not exist; delete %s if it is stale",
				pending.Tag, w.StateFile))
	}
	tracker.CompletePhase(PhaseTagged)

	if pending.Phase == state.PhaseTagged {
		// Re-publishing rebuilds the artifact from the working tree, so the
		// tree must still be exactly the tagged commit: clean, with HEAD on
		// the commit the tag points at.
		clean, err := w.Repo.IsClean(ctx)
		if err != nil {
			return w.finish(tracker, info, history.OutcomeAborted, err)
		}
		if !clean {
			return w.finish(tracker, info, history.OutcomeAborted,
				fmt.Errorf("commit or stash changes before resuming: %w", shiperrors.ErrDirtyWorktree))
		}
		head, err := w.Repo.Head(ctx)
		if err != nil {
			return w.finish(tracker, info, history.OutcomeAborted, err)
		}
		if pending.Commit != "" && head != pending.Commit {
			return w.finish(tracker, info, history.OutcomeAborted,
				fmt.Errorf("HEAD %.10s is not the commit %.10s tagged by %s; check out the release commit before resuming: %w",
					head, pending.Commit, pending.Tag, shiperrors.ErrHeadMoved))
		}

		fmt.Fprintf(w.stderr(), "Resuming release %s: publishing artifact\n", pending.Tag)
		artifacts, err := w.publish(ctx, current)
		if err != nil {
			return w.finish(tracker, info, history.OutcomeFailed, err)
		}
		info.artifacts = artifacts

		pending.Phase = state.PhasePublished
		if err := state.Save(pending, w.StateFile); err != nil {
			return w.finish(tracker, info, history.OutcomeFailed, err)
		}
	} else {
		fmt.Fprintf(w.stderr(), "Resuming release %s: artifact already published, bumping version\n", pending.Tag)
	}
	tracker.CompletePhase(PhasePublished)

	if err := w.bumpAndCommit(ctx, current, next); err != nil {
		return w.finish(tracker, info, history.OutcomeFailed, err)
	}
	if err := state.Delete(w.StateFile); err != nil {
		return w.finish(tracker, info, history.OutcomeFailed, err)
	}
	tracker.CompletePhase(PhaseVersionBumped)

	fmt.Fprintf(w.stderr(), "Released %s; version source now reads %s\n", pending.Tag, next)
	return w.finish(tracker, info, history.OutcomeReleased, nil)
}

// publish builds the artifacts and uploads each one to the index.
func (w *Workflow) publish(ctx context.Context, current semver.Version) ([]string, error) {
	artifacts, err := w.Builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	meta := index.UploadMetadata{
		Project: w.Config.Project.Name,
		Version: current.String(),
	}
	for _, artifact := range artifacts {
		fmt.Fprintf(w.stderr(), "Uploading %s\n", artifact)
		if err := w.Uploader.Upload(ctx, artifact, meta); err != nil {
			return nil, err
		}
	}
	return artifacts, nil
}

// bumpAndCommit rewrites the version source and manifests to the next
// version, commits, and pushes.
func (w *Workflow) bumpAndCommit(ctx context.Context, current, next semver.Version) error {
	if err := w.source().Rewrite(current, next); err != nil {
		return err
	}
	if err := versionfile.SyncManifests(w.Config.Project.Manifests, current, next); err != nil {
		return err
	}

	files := append([]string{w.Config.Project.VersionFile}, w.Config.Project.Manifests...)
	if err := w.Repo.Add(ctx, files...); err != nil {
		return err
	}
	if err := w.Repo.Commit(ctx, "bump version to "+next.String()); err != nil {
		return err
	}
	return w.Repo.Push(ctx, w.Config.Git.Remote)
}

// runInfo carries the identity of the release being attempted, for reports
// and ledger entries.
type runInfo struct {
	version   semver.Version
	next      semver.Version
	tag       string
	commit    string
	artifacts []string
	startedAt time.Time
}

// finish assembles the report, records the ledger entry, and passes the
// error through. Dry runs and guard aborts that never touched anything are
// not recorded in the ledger.
func (w *Workflow) finish(tracker *report.Tracker, info runInfo, outcome string, err error) (*report.ReleaseReport, error) {
	reportOutcome := outcome
	if w.DryRun && err == nil {
		reportOutcome = "dry-run"
	} else if err == nil {
		reportOutcome = history.OutcomeReleased
	}

	rep := tracker.Finalize(reportOutcome)
	rep.Project = w.Config.Project.Name
	rep.ReleaseVersion = info.version.String()
	rep.NextVersion = info.next.String()
	rep.Tag = info.tag
	rep.Commit = info.commit
	rep.DryRun = w.DryRun
	rep.Artifacts = info.artifacts
	if err != nil {
		rep.Error = err.Error()
	}

	// Guard aborts and dry runs performed no side effects; only runs that
	// reached the mutation phases are worth a ledger row.
	if w.Ledger != nil && (outcome == history.OutcomeReleased || outcome == history.OutcomeFailed) {
		startedAt := info.startedAt
		if startedAt.IsZero() {
			startedAt = rep.StartedAt
		}
		entry := history.Entry{
			Project:    w.Config.Project.Name,
			Version:    info.version.String(),
			Tag:        info.tag,
			Commit:     info.commit,
			Outcome:    outcome,
			Artifacts:  len(info.artifacts),
			StartedAt:  startedAt,
			FinishedAt: rep.CompletedAt,
		}
		if err != nil {
			entry.Error = err.Error()
		}
		if recErr := w.Ledger.Record(entry); recErr != nil {
			fmt.Fprintf(w.stderr(), "warning: failed to record release in ledger: %v\n", recErr)
		}
	}

	return rep, err
}

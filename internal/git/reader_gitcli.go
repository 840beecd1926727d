package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Each commit record is prefixed by 0x1e (record separator) and carries
// NUL-separated fields, so subjects with arbitrary text stay parseable.
const gitLogFormat = "%x1e%H%x00%P%x00%cI"

func (r *HistoryReader) git(ctx context.Context, args ...string) ([]byte, error) {
	args = append([]string{"-C", r.opts.RepoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w: %s", args[2], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

func (r *HistoryReader) readSnapshotGitCLI(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	// Fails on a detached HEAD, which simply leaves Head empty.
	if out, err := r.git(ctx, "symbolic-ref", "--quiet", "--short", "HEAD"); err == nil {
		snap.Head = strings.TrimSpace(string(out))
	}

	out, err := r.git(ctx, "for-each-ref", "--format=%(refname:short)%00%(objectname)", "refs/heads/")
	if err != nil {
		return nil, err
	}
	refs, err := parseBranchRefs(out)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		ok, err := r.matchesFilters(ref.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			snap.Branches = append(snap.Branches, ref)
		}
	}
	if len(snap.Branches) == 0 {
		return snap, nil
	}

	args := []string{"log", "--no-color", "--pretty=format:" + gitLogFormat}
	for _, b := range snap.Branches {
		args = append(args, b.Head)
	}
	out, err = r.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	snap.Commits, err = parseGitLog(out)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func parseBranchRefs(out []byte) ([]BranchRef, error) {
	var refs []BranchRef
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		name, head, ok := strings.Cut(line, "\x00")
		if !ok {
			return nil, fmt.Errorf("unexpected git for-each-ref line: %q", line)
		}
		refs = append(refs, BranchRef{Name: name, Head: head})
	}
	return refs, nil
}

func parseGitLog(out []byte) ([]CommitInfo, error) {
	records := bytes.Split(out, []byte{0x1e})
	results := make([]CommitInfo, 0, len(records))

	for _, rec := range records {
		rec = bytes.TrimRight(rec, "\r\n")
		if len(rec) == 0 {
			continue
		}

		fields := bytes.SplitN(rec, []byte{0x00}, 3)
		if len(fields) < 3 {
			return nil, fmt.Errorf("unexpected git log record format")
		}

		when, err := time.Parse(time.RFC3339, string(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("parse committer date: %w", err)
		}

		results = append(results, CommitInfo{
			SHA:     string(fields[0]),
			Parents: strings.Fields(string(fields[1])),
			When:    when,
		})
	}

	return results, nil
}

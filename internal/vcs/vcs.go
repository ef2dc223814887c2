// Package vcs records provenance from the project's git repository.
package vcs

import (
	"github.com/go-git/go-git/v5"
)

// Info identifies the commit a compilation ran against.
type Info struct {
	CommitSHA string
	Branch    string
}

// Head reads the current commit and branch for the repository containing
// path, searching parent directories for the .git directory the way git
// itself does. Projects outside a repository get a zero Info, not an
// error: provenance is best-effort.
func Head(path string) Info {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Info{}
	}
	head, err := repo.Head()
	if err != nil {
		return Info{}
	}
	return Info{
		CommitSHA: head.Hash().String(),
		Branch:    head.Name().Short(),
	}
}

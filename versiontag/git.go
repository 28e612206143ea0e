package versiontag

import (
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/teranos/crepr/errors"
)

// TagAtHead returns the tag pointing at HEAD of the repository containing
// dir. Annotated tags are followed to their commit.
func TagAtHead(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.Wrapf(err, "failed to open repository at %s", dir)
	}

	head, err := repo.Head()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve HEAD")
	}

	tags, err := repo.Tags()
	if err != nil {
		return "", errors.Wrap(err, "failed to list tags")
	}

	var found []string
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tag, err := repo.TagObject(hash); err == nil {
			commit, err := tag.Commit()
			if err != nil {
				// Tag of a tree or blob
				return nil
			}
			hash = commit.Hash
		}
		if hash == head.Hash() {
			found = append(found, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to read tags")
	}

	switch len(found) {
	case 0:
		return "", errors.WithHint(
			errors.Newf("no tag points at HEAD (%s)", head.Hash().String()[:7]),
			"pass the tag as an argument")
	case 1:
		return found[0], nil
	default:
		sort.Strings(found)
		return "", errors.WithHintf(
			errors.Newf("%d tags point at HEAD", len(found)),
			"pass one of them as an argument: %v", found)
	}
}

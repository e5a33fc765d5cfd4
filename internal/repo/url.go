package repo

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// Hosting sources recognized in remote URLs.
const (
	SourceAzure         = "azure.com"
	SourceAzureDevOps   = "dev.azure.com"
	SourceVisualStudio  = "visualstudio.com"
	SourceGitHub        = "github.com"
	SourceBitbucket     = "bitbucket.org"
	azureGitSegment     = "_git"
	azureSSHVersionPath = "v3"
)

// sourceTypes maps a hosting source to its repository resource type.
var sourceTypes = map[string]model.RepoType{
	SourceAzure:        model.RepoTypeGit,
	SourceAzureDevOps:  model.RepoTypeGit,
	SourceVisualStudio: model.RepoTypeGit,
	SourceGitHub:       model.RepoTypeGitHub,
	SourceBitbucket:    model.RepoTypeBitbucket,
}

// RemoteInfo is a parsed remote URL.
type RemoteInfo struct {
	// Source is the hosting source, e.g. "github.com" or "dev.azure.com".
	Source string
	// Owner is the user, organisation or Azure DevOps project.
	Owner string
	// Name is the repository name without a .git suffix.
	Name string
}

// FullName returns "owner/name".
func (r RemoteInfo) FullName() string {
	return r.Owner + "/" + r.Name
}

// Type returns the repository resource type for the source, or "" when the
// host is not a known pipeline repository source.
func (r RemoteInfo) Type() model.RepoType {
	return sourceTypes[r.Source]
}

// ParseURL parses https, ssh and scp-style remote URLs.
//
//	https://dev.azure.com/org/project/_git/repo   -> project/repo (git)
//	git@ssh.dev.azure.com:v3/org/project/repo     -> project/repo (git)
//	https://org.visualstudio.com/project/_git/repo -> project/repo (git)
//	git@github.com:owner/repo.git                 -> owner/repo (github)
//	https://bitbucket.org/owner/repo.git          -> owner/repo (bitbucket)
func ParseURL(raw string) (RemoteInfo, error) {
	host, path, err := splitRemote(strings.TrimSpace(raw))
	if err != nil {
		return RemoteInfo{}, err
	}

	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if n := len(segments); n > 0 {
		segments[n-1] = strings.TrimSuffix(segments[n-1], ".git")
	}

	info := RemoteInfo{Source: sourceFor(host)}
	owner, name, ok := ownerAndName(info.Source, segments)
	if !ok {
		return RemoteInfo{}, fmt.Errorf("unsupported remote URL %q: missing owner or repository", raw)
	}
	info.Owner, info.Name = owner, name
	return info, nil
}

// splitRemote returns the host and path of a remote URL.
func splitRemote(raw string) (string, string, error) {
	if raw == "" {
		return "", "", fmt.Errorf("empty remote URL")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("invalid remote URL %q: %w", raw, err)
		}
		if u.Hostname() == "" {
			return "", "", fmt.Errorf("unsupported remote URL %q: no host", raw)
		}
		return strings.ToLower(u.Hostname()), u.Path, nil
	}

	// scp-like syntax: [user@]host:path
	hostPart, path, ok := strings.Cut(raw, ":")
	if !ok || hostPart == "" || strings.Contains(hostPart, "/") {
		return "", "", fmt.Errorf("unsupported remote URL %q", raw)
	}
	if i := strings.LastIndex(hostPart, "@"); i >= 0 {
		hostPart = hostPart[i+1:]
	}
	return strings.ToLower(hostPart), path, nil
}

// sourceFor normalizes a host to its hosting source.
func sourceFor(host string) string {
	switch {
	case host == SourceAzureDevOps || host == "ssh."+SourceAzureDevOps:
		return SourceAzureDevOps
	case host == SourceVisualStudio || strings.HasSuffix(host, "."+SourceVisualStudio):
		return SourceVisualStudio
	case host == SourceAzure || strings.HasSuffix(host, "."+SourceAzure):
		return SourceAzure
	case host == "www."+SourceGitHub:
		return SourceGitHub
	}
	return host
}

func ownerAndName(source string, segments []string) (string, string, bool) {
	switch source {
	case SourceAzure, SourceAzureDevOps, SourceVisualStudio:
		for i, s := range segments {
			if s == azureGitSegment && i > 0 && i+1 < len(segments) {
				return segments[i-1], segments[i+1], true
			}
		}
		// ssh: v3/org/project/repo
		if len(segments) == 4 && segments[0] == azureSSHVersionPath {
			return segments[2], segments[3], true
		}
	}

	if len(segments) < 2 {
		return "", "", false
	}
	return segments[len(segments)-2], segments[len(segments)-1], true
}

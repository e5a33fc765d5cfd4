package repo

import (
	"github.com/tacogips/pipelinedoc/internal/config"
	"github.com/tacogips/pipelinedoc/internal/logging"
	"github.com/tacogips/pipelinedoc/internal/template/model"
)

// Detect reads the preferred git remote of the repository containing dir
// and converts it into repository metadata.
func Detect(dir string) (*model.RepoMetadata, error) {
	raw, err := RemoteURL(dir)
	if err != nil {
		return nil, err
	}
	info, err := ParseURL(raw)
	if err != nil {
		return nil, err
	}
	return &model.RepoMetadata{
		Name: info.FullName(),
		Type: info.Type(),
	}, nil
}

// Resolve merges configured repository settings with the detected remote.
// Configured values win. It returns nil when no repository name is known,
// in which case usage examples reference the template by path only.
func Resolve(dir string, cfg config.RepoConfig) *model.RepoMetadata {
	log := logging.Component("repo")

	meta := &model.RepoMetadata{
		Identifier: cfg.Identifier,
		Name:       cfg.Name,
		Type:       model.RepoType(cfg.Type),
		Ref:        cfg.Ref,
		Endpoint:   cfg.Endpoint,
	}
	if meta.Identifier == "" {
		meta.Identifier = config.DefaultRepoIdentifier
	}

	if cfg.Detect && (meta.Name == "" || meta.Type == "") {
		detected, err := Detect(dir)
		if err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("repository detection skipped")
		} else {
			log.Debug().Str("name", detected.Name).Str("type", string(detected.Type)).Msg("detected repository")
			// A detected type only applies to the detected repository.
			if meta.Name == "" {
				meta.Name = detected.Name
				if meta.Type == "" {
					meta.Type = detected.Type
				}
			} else if meta.Type == "" && meta.Name == detected.Name {
				meta.Type = detected.Type
			}
		}
	}

	if meta.Name == "" {
		return nil
	}
	return meta
}

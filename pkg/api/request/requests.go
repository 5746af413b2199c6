package request

import "github.com/covergen/covergen-api/internal/shared/logutil"

type RepoID struct {
	RepoID uint `request:"repoid,urlPart,"`
}

func (r RepoID) FillLogContext(lctx logutil.Context) {
	lctx["repo_id"] = r.RepoID
}

type JobID struct {
	JobID string `request:"jobid,urlPart,"`
}

func (j JobID) FillLogContext(lctx logutil.Context) {
	lctx["job_id"] = j.JobID
}

type BodyRepo struct {
	RepositoryURL string `json:"repositoryUrl"`
}

func (b BodyRepo) FillLogContext(lctx logutil.Context) {
	lctx["repo_url"] = b.RepositoryURL
}

type BodyJob struct {
	RepositoryURL string `json:"repositoryUrl"`
	FilePath      string `json:"filePath"`
}

func (b BodyJob) FillLogContext(lctx logutil.Context) {
	lctx["repo_url"] = b.RepositoryURL
	lctx["file_path"] = b.FilePath
}

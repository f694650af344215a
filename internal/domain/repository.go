package domain

// RepositoryRef указывает на репозиторий в формате owner/name.
type RepositoryRef struct {
	Owner string
	Name  string
}

// String возвращает репозиторий в виде "owner/name".
func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

package models

// PersonalProjectID is the reserved project id that marks a task as personal
// (not tied to a real project). It exists only at the storage and API
// boundary; code should work with ProjectScope instead of comparing ids.
const PersonalProjectID int64 = -1

// ProjectScope says whether a task belongs to a real project or is personal.
type ProjectScope struct {
	personal  bool
	projectID int64
}

// PersonalScope returns the scope for personal tasks.
func PersonalScope() ProjectScope {
	return ProjectScope{personal: true}
}

// OwnedScope returns the scope for tasks owned by a real project.
func OwnedScope(projectID int64) ProjectScope {
	return ProjectScope{projectID: projectID}
}

// ScopeOf maps a stored project id to its scope, honoring the sentinel.
func ScopeOf(projectID int64) ProjectScope {
	if projectID == PersonalProjectID {
		return PersonalScope()
	}
	return OwnedScope(projectID)
}

// Personal reports whether the scope is the personal-task scope.
func (s ProjectScope) Personal() bool { return s.personal }

// ProjectID returns the stored project id for the scope. For the personal
// scope this is the sentinel value.
func (s ProjectScope) ProjectID() int64 {
	if s.personal {
		return PersonalProjectID
	}
	return s.projectID
}

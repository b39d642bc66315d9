package matching

import (
	"github.com/jonkmatsumo/classroom-auditor/internal/lms"
	"github.com/jonkmatsumo/classroom-auditor/internal/normalize"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// defaultChallengeKeyword is used when a challenges resource carries no
// configured keyword.
const defaultChallengeKeyword = "reto"

// Section names excluded from the cycle-2 matchable pool.
var excludedSectionNames = []string{"inicio", "cierre"}

// matchCycleTwo implements the cycle-2 strategy: start/close sections are
// excluded up front, challenge and forum resources match dedicated activity
// listings, and every other resource maps to the entire filtered section
// list.
func matchCycleTwo(snapshot *lms.Snapshot, resources []taxonomy.Resource) Result {
	filtered := filterSections(snapshot.Sections)

	var result Result
	for _, resource := range resources {
		switch {
		case isChallengeResource(resource):
			assignments := challengeAssignments(snapshot.Assignments, challengeKeyword(resource))
			if len(assignments) == 0 {
				result.Unmatched = append(result.Unmatched, UnmatchedResource{Resource: resource})
				continue
			}
			result.Matched = append(result.Matched, MatchedResource{
				Resource:    resource,
				Assignments: assignments,
			})

		case isForumResource(resource):
			forums := discussionForums(snapshot.Forums)
			if len(forums) == 0 {
				result.Unmatched = append(result.Unmatched, UnmatchedResource{Resource: resource})
				continue
			}
			result.Matched = append(result.Matched, MatchedResource{
				Resource: resource,
				Forums:   forums,
			})

		default:
			if len(filtered) == 0 {
				result.Unmatched = append(result.Unmatched, UnmatchedResource{Resource: resource})
				continue
			}
			result.Matched = append(result.Matched, MatchedResource{
				Resource: resource,
				Sections: filtered,
			})
		}
	}
	return result
}

func filterSections(sections []lms.Section) []lms.Section {
	var filtered []lms.Section
	for _, section := range sections {
		if isExcludedSection(section.Name) {
			continue
		}
		filtered = append(filtered, section)
	}
	return filtered
}

func isExcludedSection(name string) bool {
	for _, excluded := range excludedSectionNames {
		if normalize.EqualFold(name, excluded) {
			return true
		}
	}
	return false
}

func isChallengeResource(resource taxonomy.Resource) bool {
	return normalize.ContainsFold(resource.Name, defaultChallengeKeyword)
}

func isForumResource(resource taxonomy.Resource) bool {
	return normalize.ContainsFold(resource.Name, "foro")
}

func challengeKeyword(resource taxonomy.Resource) string {
	if resource.Config != nil && resource.Config.ChallengeKeyword != "" {
		return resource.Config.ChallengeKeyword
	}
	return defaultChallengeKeyword
}

// challengeAssignments returns assignments whose name contains the keyword
// but is not exactly the keyword, which excludes the generic placeholder
// assignment the course template ships with.
func challengeAssignments(assignments []lms.Assignment, keyword string) []lms.Assignment {
	var out []lms.Assignment
	for _, a := range assignments {
		if !normalize.ContainsFold(a.Name, keyword) {
			continue
		}
		if normalize.EqualFold(a.Name, keyword) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// discussionForums returns every forum that is not the announcements forum.
func discussionForums(forums []lms.Forum) []lms.Forum {
	var out []lms.Forum
	for _, f := range forums {
		if f.Type == lms.ForumTypeNews {
			continue
		}
		out = append(out, f)
	}
	return out
}

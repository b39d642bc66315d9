// Package matching aligns taxonomy resources with the live structure of an
// LMS course, partitioning the resource set into matched and unmatched.
package matching

import (
	"github.com/jonkmatsumo/classroom-auditor/internal/lms"
	"github.com/jonkmatsumo/classroom-auditor/internal/normalize"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// OverlapThreshold is the fraction of a content name's words that must be
// present in a file's text for a fuzzy match. Ties at the threshold are
// rejected.
const OverlapThreshold = 0.5

// folderKeyword marks resources whose module match is a folder-like
// aggregate; its files are matched per content node.
const folderKeyword = "carpeta"

// ContentMatch pairs a taxonomy content node with the best-matching file
// inside a folder module. File is nil when no file cleared the threshold.
type ContentMatch struct {
	Content taxonomy.Content
	File    *lms.ContentFile
}

// MatchedResource is a taxonomy resource aligned with course structure.
// Exactly one of Section, Sections or Module is populated for structural
// matches; Forums and Assignments carry the cycle-2 activity matches.
type MatchedResource struct {
	Resource       taxonomy.Resource
	Section        *lms.Section
	Sections       []lms.Section
	Module         *lms.Module
	ContentMatches []ContentMatch
	Forums         []lms.Forum
	Assignments    []lms.Assignment
}

// UnmatchedResource is a taxonomy resource with no structural counterpart.
type UnmatchedResource struct {
	Resource taxonomy.Resource
}

// Result partitions a cycle's resource set. Matched and Unmatched are
// disjoint and together cover every input resource; Unmatched preserves
// taxonomy order.
type Result struct {
	Matched   []MatchedResource
	Unmatched []UnmatchedResource
}

// Match aligns resources with the snapshot using the strategy for the
// given cycle kind.
func Match(snapshot *lms.Snapshot, resources []taxonomy.Resource, cycleKind taxonomy.CycleKind) Result {
	if cycleKind == taxonomy.CycleTwo {
		return matchCycleTwo(snapshot, resources)
	}
	return matchDefault(snapshot, resources)
}

// matchDefault scans sections for a case-insensitive name match per
// resource, then modules. First match wins; a claimed section or module is
// removed from the pool so later resources cannot re-claim it.
func matchDefault(snapshot *lms.Snapshot, resources []taxonomy.Resource) Result {
	var result Result
	claimedSections := make(map[int]bool)
	claimedModules := make(map[int]bool)

	for _, resource := range resources {
		matched := claimResource(snapshot, resource, claimedSections, claimedModules)
		if matched == nil {
			result.Unmatched = append(result.Unmatched, UnmatchedResource{Resource: resource})
			continue
		}
		result.Matched = append(result.Matched, *matched)
	}
	return result
}

func claimResource(snapshot *lms.Snapshot, resource taxonomy.Resource, claimedSections, claimedModules map[int]bool) *MatchedResource {
	for i := range snapshot.Sections {
		section := &snapshot.Sections[i]
		if claimedSections[section.ID] {
			continue
		}
		if normalize.EqualFold(section.Name, resource.Name) {
			claimedSections[section.ID] = true
			return &MatchedResource{Resource: resource, Section: section}
		}
	}
	for i := range snapshot.Sections {
		for j := range snapshot.Sections[i].Modules {
			module := &snapshot.Sections[i].Modules[j]
			if claimedModules[module.ID] {
				continue
			}
			if !normalize.EqualFold(module.Name, resource.Name) {
				continue
			}
			claimedModules[module.ID] = true
			matched := &MatchedResource{Resource: resource, Module: module}
			if isFolderResource(resource) {
				matched.ContentMatches = matchFolderContents(resource.Contents, module.Contents)
			}
			return matched
		}
	}
	return nil
}

func isFolderResource(resource taxonomy.Resource) bool {
	return len(resource.Contents) > 0 && normalize.ContainsFold(resource.Name, folderKeyword)
}

// matchFolderContents pairs each content node with the file entry whose
// text best overlaps the content name, rejecting scores at or below the
// threshold.
func matchFolderContents(contents []taxonomy.Content, files []lms.ContentFile) []ContentMatch {
	matches := make([]ContentMatch, 0, len(contents))
	for _, content := range contents {
		matches = append(matches, ContentMatch{
			Content: content,
			File:    bestFileMatch(content, files),
		})
	}
	return matches
}

func bestFileMatch(content taxonomy.Content, files []lms.ContentFile) *lms.ContentFile {
	var best *lms.ContentFile
	bestScore := OverlapThreshold
	for i := range files {
		text := files[i].Content
		if text == "" {
			text = files[i].Filename
		}
		score := normalize.WordOverlap(content.Name, text)
		if score > bestScore {
			bestScore = score
			best = &files[i]
		}
	}
	return best
}

// LocateContentModule finds the module inside a matched section or module
// that structurally corresponds to a content node, using the same word
// overlap rule as folder files. Returns nil when nothing clears the
// threshold.
func LocateContentModule(matched *MatchedResource, content taxonomy.Content) *lms.Module {
	var pool []lms.Module
	switch {
	case matched.Section != nil:
		pool = matched.Section.Modules
	case len(matched.Sections) > 0:
		for _, section := range matched.Sections {
			pool = append(pool, section.Modules...)
		}
	case matched.Module != nil:
		return matched.Module
	}

	var best *lms.Module
	bestScore := OverlapThreshold
	for i := range pool {
		score := normalize.WordOverlap(content.Name, pool[i].Name)
		if score > bestScore {
			bestScore = score
			best = &pool[i]
		}
	}
	return best
}

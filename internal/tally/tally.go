// Package tally computes election results from raw vote rows.  It is a
// pure computation with no storage or transport concerns; callers fetch
// the candidates and votes for a post and hand them in.
package tally

import (
	"sort"

	"github.com/univote/campus-election-api/internal/model"
)

// CandidateResult is one candidate's standing within a post.
//
// Fields:
//  CandidateID – candidate identifier.
//  Name        – candidate display name.
//  Department  – optional department, echoed from the candidate row.
//  ImageURL    – optional portrait URL, echoed from the candidate row.
//  VoteCount   – number of votes received.
//  Percentage  – share of the post's total votes, 0..100.
type CandidateResult struct {
	CandidateID uint64  `json:"candidate_id"`
	Name        string  `json:"name"`
	Department  *string `json:"department"`
	ImageURL    *string `json:"image_url"`
	VoteCount   int     `json:"vote_count"`
	Percentage  float64 `json:"percentage"`
}

// Result is the full standing for a single post.
type Result struct {
	Candidates []CandidateResult `json:"candidates"`
	TotalVotes int               `json:"total_votes"`
}

// Compute tallies votes over the given candidate list.  Every candidate
// appears in the output even with zero votes.  Votes whose candidate is
// not in the list are ignored (they belong to a deleted candidate).
// Ordering is deterministic: vote count descending, then name ascending.
func Compute(candidates []model.Candidate, votes []model.Vote) Result {
	counts := make(map[uint64]int, len(candidates))
	for _, c := range candidates {
		counts[c.ID] = 0
	}

	total := 0
	for _, v := range votes {
		if _, ok := counts[v.CandidateID]; !ok {
			continue
		}
		counts[v.CandidateID]++
		total++
	}

	out := make([]CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		n := counts[c.ID]
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		out = append(out, CandidateResult{
			CandidateID: c.ID,
			Name:        c.Name,
			Department:  c.Department,
			ImageURL:    c.ImageURL,
			VoteCount:   n,
			Percentage:  pct,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].VoteCount != out[j].VoteCount {
			return out[i].VoteCount > out[j].VoteCount
		}
		return out[i].Name < out[j].Name
	})

	return Result{Candidates: out, TotalVotes: total}
}

// ComputeAll tallies every post in one pass, grouping candidates and
// votes by post ID.  Posts with no candidates yield an empty result.
func ComputeAll(posts []model.Post, candidates []model.Candidate, votes []model.Vote) map[uint64]Result {
	candsByPost := make(map[uint64][]model.Candidate)
	for _, c := range candidates {
		candsByPost[c.PostID] = append(candsByPost[c.PostID], c)
	}
	votesByPost := make(map[uint64][]model.Vote)
	for _, v := range votes {
		votesByPost[v.PostID] = append(votesByPost[v.PostID], v)
	}

	results := make(map[uint64]Result, len(posts))
	for _, p := range posts {
		results[p.ID] = Compute(candsByPost[p.ID], votesByPost[p.ID])
	}
	return results
}

// Copyright (c) 2024 The Pylon developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"github.com/pkg/errors"

	"github.com/pylonchain/pylon/pylon"
)

// LoopDetectedError indicates a cycle in the persisted certificate graph.
// A well-formed store has out-degree <= 1 per issuer, so a single chain walk
// can only revisit a node if stored data is corrupt. The error is fatal and
// must propagate unchanged; retrying cannot help.
type LoopDetectedError struct {
	Stakeholder pylon.StakeholderID
}

func (e *LoopDetectedError) Error() string {
	return "delegation loop detected: " + e.Stakeholder.AbbrevString()
}

// IsLoopDetected reports whether err was caused by a delegation loop.
func IsLoopDetected(err error) bool {
	_, ok := errors.Cause(err).(*LoopDetectedError)
	return ok
}

// ResolveChain resolves the full delegation chain starting at root, returning
// every edge from root to the first stakeholder with no outgoing certificate.
// Chain depth is unbounded; only loop detection limits the walk.
func (r *Reader) ResolveChain(root pylon.StakeholderID) (Mapping, error) {
	metricResolutionCount().AddWithLabel(1, map[string]string{"kind": "chain"})
	return r.resolveChain(root, nil)
}

func (r *Reader) resolveChain(root pylon.StakeholderID, ignored map[pylon.StakeholderID]struct{}) (Mapping, error) {
	result := make(Mapping)
	visited := make(map[pylon.StakeholderID]struct{})
	worklist := []pylon.StakeholderID{root}

	for len(worklist) > 0 {
		x := worklist[0]
		worklist = worklist[1:]

		// covered by a previously resolved chain; skipped before any
		// lookup or cycle check
		if _, ok := ignored[x]; ok {
			continue
		}
		if _, ok := visited[x]; ok {
			metricLoopDetectedCount().Add(1)
			return nil, &LoopDetectedError{x}
		}
		cert, err := r.Get(x)
		if err != nil {
			return nil, err
		}
		if cert == nil {
			// the chain terminates at x
			continue
		}
		result[cert.Issuer] = cert
		visited[x] = struct{}{}
		// continue the walk one hop further
		worklist = append(worklist, cert.Delegate.StakeholderID())
	}
	return result, nil
}

// ResolveForest resolves a set of roots into one merged mapping, covering
// every edge reachable from any root. Chains converging on a shared suffix
// are resolved once: before each root, issuers already covered become the
// ignored set of that walk, so convergence is neither repeated work nor a
// false loop. The merge is order-independent for any acyclic forest.
func (r *Reader) ResolveForest(roots []pylon.StakeholderID) (Mapping, error) {
	metricResolutionCount().AddWithLabel(1, map[string]string{"kind": "forest"})

	acc := make(Mapping)
	for _, root := range roots {
		resolved, err := r.resolveChain(root, acc.IssuerIDs())
		if err != nil {
			return nil, err
		}
		for issuer, cert := range resolved {
			acc[issuer] = cert
		}
	}
	return acc, nil
}

package api

import (
	"net/http"

	"github.com/vocdoni/maci-domainobjs/domainobjs"
	"github.com/vocdoni/maci-domainobjs/types"
)

// stateLeaf returns the state leaf at the index of the URL, or the blank
// leaf if the index was never set.
// GET /leaves/{index}
func (a *API) stateLeaf(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		ErrMalformedParam.Withf("invalid index: %v", err).Write(w)
		return
	}
	leaf, err := a.storage.StateLeafOrBlank(index, a.emptyRoot)
	if err != nil {
		ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	res, err := a.stateLeafResponse(leaf)
	if err != nil {
		ErrStateLeafNotAvailable.WithErr(err).Write(w)
		return
	}
	res.Index = &index
	httpWriteJSON(w, res)
}

// blankLeaf returns the blank leaf for the configured empty vote option tree
// root.
// GET /leaves/blank
func (a *API) blankLeaf(w http.ResponseWriter, r *http.Request) {
	leaf, err := domainobjs.GenBlankLeaf(a.emptyRoot)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	res, err := a.stateLeafResponse(leaf)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, res)
}

func (a *API) stateLeafResponse(leaf *domainobjs.StateLeaf) (*StateLeafResponse, error) {
	hash, err := leaf.Hash()
	if err != nil {
		return nil, err
	}
	serialized, err := leaf.Serialize()
	if err != nil {
		return nil, err
	}
	blank, err := domainobjs.GenBlankLeaf(a.emptyRoot)
	if err != nil {
		return nil, err
	}
	return &StateLeafResponse{
		Blank:              leaf.Equals(blank),
		PubKey:             leaf.PubKey.Serialize(),
		VoteOptionTreeRoot: types.BigIntFrom(leaf.VoteOptionTreeRoot),
		VoiceCreditBalance: types.BigIntFrom(leaf.VoiceCreditBalance),
		Nonce:              types.BigIntFrom(leaf.Nonce),
		Hash:               types.BigIntFrom(hash),
		Serialized:         serialized,
	}, nil
}

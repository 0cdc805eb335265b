package api

import (
	"encoding/json"
	"net/http"

	"github.com/vocdoni/maci-domainobjs/domainobjs"
)

// validateKeys checks the serialized keys of the body.
// POST /keys/validate
func (a *API) validateKeys(w http.ResponseWriter, r *http.Request) {
	req := &ValidateKeysRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.PubKey == "" && req.PrivKey == "" {
		ErrMissingKeyToValidate.Write(w)
		return
	}
	res := &ValidateKeysResponse{}
	if req.PubKey != "" {
		valid := domainobjs.IsValidSerializedPublicKey(req.PubKey)
		res.PubKey = &valid
	}
	if req.PrivKey != "" {
		priv, err := domainobjs.UnserializePrivateKey(req.PrivKey)
		valid := err == nil
		res.PrivKey = &valid
		if valid {
			kp, err := domainobjs.KeyPairFromPrivateKey(priv)
			if err != nil {
				ErrGenericInternalServerError.WithErr(err).Write(w)
				return
			}
			res.DerivedPubKey = kp.PubKey.Serialize()
		}
	}
	httpWriteJSON(w, res)
}

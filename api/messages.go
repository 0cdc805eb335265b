package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vocdoni/maci-domainobjs/domainobjs"
	"github.com/vocdoni/maci-domainobjs/log"
	stg "github.com/vocdoni/maci-domainobjs/storage"
	"github.com/vocdoni/maci-domainobjs/types"
)

// publishMessage validates the message in the body and appends it to the
// message log.
// POST /messages
func (a *API) publishMessage(w http.ResponseWriter, r *http.Request) {
	req := &PublishMessageRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	msg, err := domainobjs.MessageFromContractParam(*req)
	if err != nil {
		ErrInvalidMessage.WithErr(err).Write(w)
		return
	}
	a.storeMessage(w, msg)
}

// publishMessageABI decodes an ABI encoded message and appends it to the
// message log.
// POST /messages/abi
func (a *API) publishMessageABI(w http.ResponseWriter, r *http.Request) {
	req := &MessageABI{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	msg, err := domainobjs.MessageFromABI(req.ABI)
	if err != nil {
		ErrInvalidMessage.WithErr(err).Write(w)
		return
	}
	a.storeMessage(w, msg)
}

func (a *API) storeMessage(w http.ResponseWriter, msg *domainobjs.Message) {
	hash, err := msg.Hash()
	if err != nil {
		ErrInvalidMessage.WithErr(err).Write(w)
		return
	}
	index, err := a.storage.PublishMessage(msg)
	if err != nil {
		ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	log.Infow("new message", "index", index, "hash", hash.String())
	httpWriteJSON(w, &PublishMessageResponse{Index: index, Hash: types.BigIntFrom(hash)})
}

// message returns the message stored at the index of the URL.
// GET /messages/{index}
func (a *API) message(w http.ResponseWriter, r *http.Request) {
	msg, ok := a.messageFromURL(w, r)
	if !ok {
		return
	}
	index, _ := indexParam(r)
	res, err := messageResponse(index, msg)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, res)
}

// messageABI returns the ABI encoding of the message stored at the index of
// the URL.
// GET /messages/{index}/abi
func (a *API) messageABI(w http.ResponseWriter, r *http.Request) {
	msg, ok := a.messageFromURL(w, r)
	if !ok {
		return
	}
	data, err := msg.ABIEncode()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &MessageABI{ABI: data})
}

// messages returns the number of published messages and, if the from and
// to query parameters are provided, the messages in [from, to).
// GET /messages?from=<from>&to=<to>
func (a *API) messages(w http.ResponseWriter, r *http.Request) {
	count, err := a.storage.MessageCount()
	if err != nil {
		ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	res := &MessagesResponse{Count: count}
	fromStr, toStr := r.URL.Query().Get(FromQueryParam), r.URL.Query().Get(ToQueryParam)
	if fromStr == "" && toStr == "" {
		httpWriteJSON(w, res)
		return
	}
	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		ErrMalformedParam.Withf("invalid %s: %v", FromQueryParam, err).Write(w)
		return
	}
	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		ErrMalformedParam.Withf("invalid %s: %v", ToQueryParam, err).Write(w)
		return
	}
	msgs, err := a.storage.Messages(from, to)
	if errors.Is(err, stg.ErrInvalidRange) {
		ErrInvalidRange.WithErr(err).Write(w)
		return
	}
	if err != nil {
		ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	res.Messages = make([]*MessageResponse, 0, len(msgs))
	for i, msg := range msgs {
		mr, err := messageResponse(from+uint64(i), msg)
		if err != nil {
			ErrGenericInternalServerError.WithErr(err).Write(w)
			return
		}
		res.Messages = append(res.Messages, mr)
	}
	httpWriteJSON(w, res)
}

// messageFromURL loads the message at the index of the URL. If it fails,
// the error is written to w and false is returned.
func (a *API) messageFromURL(w http.ResponseWriter, r *http.Request) (*domainobjs.Message, bool) {
	index, err := indexParam(r)
	if err != nil {
		ErrMalformedParam.Withf("invalid index: %v", err).Write(w)
		return nil, false
	}
	msg, err := a.storage.Message(index)
	if errors.Is(err, stg.ErrNotFound) {
		ErrMessageNotFound.Withf("index %d", index).Write(w)
		return nil, false
	}
	if err != nil {
		ErrStorageFailure.WithErr(err).Write(w)
		return nil, false
	}
	return msg, true
}

func messageResponse(index uint64, msg *domainobjs.Message) (*MessageResponse, error) {
	hash, err := msg.Hash()
	if err != nil {
		return nil, err
	}
	return &MessageResponse{
		Index:   index,
		Message: msg.AsContractParam(),
		Hash:    types.BigIntFrom(hash),
	}, nil
}

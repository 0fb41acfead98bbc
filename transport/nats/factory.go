package nats

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-kit/kit/endpoint"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"

	"github.com/bloommama/bloomrag"
	"github.com/bloommama/bloomrag/store"
)

func MakeEndpoints(nc *nats.Conn, prefix string) *bloomrag.EndpointSet {
	return &bloomrag.EndpointSet{
		IngestDocument: IngestDocumentEndpoint(nc, prefix+".ingest_document"),
		Answer:         AnswerEndpoint(nc, prefix+".answer"),
		ListDocuments:  ListDocumentsEndpoint(nc, prefix+".list_documents"),
		DeleteDocument: DeleteDocumentEndpoint(nc, prefix+".delete_document"),
	}
}

func IngestDocumentEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(bloomrag.IngestDocumentRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data, err := json.Marshal(&req)
		if err != nil {
			return nil, err
		}

		resp, err := nc.Request(topic, data, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		var result bloomrag.IngestDocumentResponse
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, err
		}

		return &result, nil
	}
}

func AnswerEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(bloomrag.AnswerRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data, err := json.Marshal(&req)
		if err != nil {
			return nil, err
		}

		resp, err := nc.Request(topic, data, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		var result bloomrag.AnswerResponse
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, err
		}

		return &result, nil
	}
}

func ListDocumentsEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		resp, err := nc.Request(topic, nil, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		var docs []store.Document
		if err := json.Unmarshal(resp.Data, &docs); err != nil {
			return nil, err
		}

		return docs, nil
	}
}

func DeleteDocumentEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		documentID, ok := request.(string)
		if !ok {
			return nil, errors.New("invalid request")
		}

		resp, err := nc.Request(topic, []byte(documentID), nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		return string(resp.Data), nil
	}
}

func Error(msg *nats.Msg) error {
	if msg == nil {
		return errors.New("nil message")
	}

	code := msg.Header.Get(micro.ErrorCodeHeader)
	if code == "" {
		return nil
	}

	description := msg.Header.Get(micro.ErrorHeader)
	if description == "" {
		description = "unknown error"
	}

	return errors.New(code + ":" + description)
}

// Package transport carries oracle invocations over gRPC so a system under
// test can run in its own process. Messages are google.protobuf.Struct
// values; no generated stubs are needed.
package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"mtkeras/internal/domain"
	"mtkeras/internal/oracle"
)

const (
	serviceName    = "mtkeras.oracle.v1.Oracle"
	predictMethod  = "/" + serviceName + "/Predict"
	classifyMethod = "/" + serviceName + "/Classify"
)

// OracleServer is the server side of the Oracle service. Predict takes a
// whole dataset; Classify takes preprocessed classifier tensors.
type OracleServer interface {
	Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Classify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var oracleServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*OracleServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Predict", Handler: unaryHandler(predictMethod, OracleServer.Predict)},
		{MethodName: "Classify", Handler: unaryHandler(classifyMethod, OracleServer.Classify)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mtkeras/oracle/v1/oracle.proto",
}

type unaryMethod func(OracleServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OracleServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(OracleServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// encodeRequest packs a dataset as {"domain": <kind>, "dataset": <json>}.
func encodeRequest(kind domain.Kind, ds domain.Dataset) (*structpb.Struct, error) {
	raw, err := domain.Encode(ds)
	if err != nil {
		return nil, err
	}
	v := new(structpb.Value)
	if err := protojson.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"domain":  structpb.NewStringValue(kind.String()),
		"dataset": v,
	}}, nil
}

func decodeRequest(req *structpb.Struct) (domain.Kind, domain.Dataset, error) {
	kind, err := domain.ParseKind(req.GetFields()["domain"].GetStringValue())
	if err != nil {
		return 0, nil, err
	}
	v, ok := req.GetFields()["dataset"]
	if !ok {
		return 0, nil, fmt.Errorf("request has no dataset")
	}
	raw, err := protojson.Marshal(v)
	if err != nil {
		return 0, nil, err
	}
	ds, err := domain.Decode(kind, raw)
	if err != nil {
		return 0, nil, err
	}
	return kind, ds, nil
}

// encodeOutputs packs outputs as {"outputs": [...]}. Outputs go through JSON
// so any JSON-shaped value survives, including nested row sets.
func encodeOutputs(out []domain.Output) (*structpb.Struct, error) {
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode outputs: %w", err)
	}
	v := new(structpb.Value)
	if err := protojson.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("encode outputs: %w", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{"outputs": v}}, nil
}

func decodeOutputs(resp *structpb.Struct) ([]domain.Output, error) {
	list := resp.GetFields()["outputs"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("response has no outputs list")
	}
	vals := list.GetValues()
	out := make([]domain.Output, len(vals))
	for i, v := range vals {
		out[i] = v.AsInterface()
	}
	return out, nil
}

// encodeTensors packs classifier inputs as
// {"tensors": [{"shape": [...], "data": [...]}, ...]}.
func encodeTensors(in []oracle.Tensor) *structpb.Struct {
	vals := make([]*structpb.Value, len(in))
	for i, t := range in {
		shape := make([]*structpb.Value, len(t.Shape))
		for j, d := range t.Shape {
			shape[j] = structpb.NewNumberValue(float64(d))
		}
		data := make([]*structpb.Value, len(t.Data))
		for j, v := range t.Data {
			data[j] = structpb.NewNumberValue(v)
		}
		vals[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"shape": structpb.NewListValue(&structpb.ListValue{Values: shape}),
			"data":  structpb.NewListValue(&structpb.ListValue{Values: data}),
		}})
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"tensors": structpb.NewListValue(&structpb.ListValue{Values: vals}),
	}}
}

func decodeTensors(req *structpb.Struct) ([]oracle.Tensor, error) {
	list := req.GetFields()["tensors"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("request has no tensors list")
	}
	out := make([]oracle.Tensor, len(list.GetValues()))
	for i, v := range list.GetValues() {
		f := v.GetStructValue().GetFields()
		shape, data := f["shape"].GetListValue(), f["data"].GetListValue()
		if shape == nil || data == nil {
			return nil, fmt.Errorf("tensor %d: missing shape or data", i)
		}
		size := 1
		for _, d := range shape.GetValues() {
			n := int(d.GetNumberValue())
			if n <= 0 || float64(n) != d.GetNumberValue() {
				return nil, fmt.Errorf("tensor %d: bad dimension %v", i, d.GetNumberValue())
			}
			out[i].Shape = append(out[i].Shape, n)
			size *= n
		}
		if size != len(data.GetValues()) {
			return nil, fmt.Errorf("tensor %d: shape %v holds %d values, got %d", i, out[i].Shape, size, len(data.GetValues()))
		}
		out[i].Data = make([]float64, len(data.GetValues()))
		for j, x := range data.GetValues() {
			out[i].Data[j] = x.GetNumberValue()
		}
	}
	return out, nil
}

func encodeClasses(classes []int) *structpb.Struct {
	vals := make([]*structpb.Value, len(classes))
	for i, c := range classes {
		vals[i] = structpb.NewNumberValue(float64(c))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"classes": structpb.NewListValue(&structpb.ListValue{Values: vals}),
	}}
}

func decodeClasses(resp *structpb.Struct) ([]int, error) {
	list := resp.GetFields()["classes"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("response has no classes list")
	}
	out := make([]int, len(list.GetValues()))
	for i, v := range list.GetValues() {
		out[i] = int(v.GetNumberValue())
	}
	return out, nil
}

package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "conference.v1.Appointments"

// AppointmentsServiceServer is implemented by AppointmentsServer. Requests
// and responses are google.protobuf.Struct documents.
type AppointmentsServiceServer interface {
	CreateAppointment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateAppointment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteAppointment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListUserAppointments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListRoomAppointments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv AppointmentsServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

var AppointmentsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AppointmentsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAppointment", Handler: unaryHandler("CreateAppointment", AppointmentsServiceServer.CreateAppointment)},
		{MethodName: "UpdateAppointment", Handler: unaryHandler("UpdateAppointment", AppointmentsServiceServer.UpdateAppointment)},
		{MethodName: "DeleteAppointment", Handler: unaryHandler("DeleteAppointment", AppointmentsServiceServer.DeleteAppointment)},
		{MethodName: "ListUserAppointments", Handler: unaryHandler("ListUserAppointments", AppointmentsServiceServer.ListUserAppointments)},
		{MethodName: "ListRoomAppointments", Handler: unaryHandler("ListRoomAppointments", AppointmentsServiceServer.ListRoomAppointments)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "conference/v1/appointments.proto",
}

func RegisterAppointmentsServiceServer(s grpc.ServiceRegistrar, srv AppointmentsServiceServer) {
	s.RegisterService(&AppointmentsServiceDesc, srv)
}

// FullMethod returns the invocation path of method, e.g.
// "/conference.v1.Appointments/CreateAppointment".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler(method string, call unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := FullMethod(method)
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AppointmentsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AppointmentsServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

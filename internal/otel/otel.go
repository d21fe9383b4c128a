package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/sfelinto/orderms/internal/jaeger"
)

type OtelController struct {
	traceProvider *sdktrace.TracerProvider
}

func MustInitOtel() *OtelController {
	jaegerExporter := jaeger.MustNewJaeger()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(jaegerExporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("orderms"),
		)),
	)

	otel.SetTracerProvider(tp)

	return &OtelController{
		traceProvider: tp,
	}
}

func (o *OtelController) Shutdown() error {
	if err := o.traceProvider.Shutdown(context.Background()); err != nil {
		return err
	}

	return nil
}

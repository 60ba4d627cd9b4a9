package database

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type fakeTables struct {
	describeErr error
	createErr   error
	created     *dynamodb.CreateTableInput
}

func (f *fakeTables) DescribeTable(context.Context, *dynamodb.DescribeTableInput, ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{}, f.describeErr
}

func (f *fakeTables) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.created = in
	return &dynamodb.CreateTableOutput{}, f.createErr
}

func TestEnsurePaymentAttemptsTable(t *testing.T) {
	t.Run("existing table", func(t *testing.T) {
		f := &fakeTables{}
		if err := EnsurePaymentAttemptsTable(context.Background(), f, "payment_attempts"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.created != nil {
			t.Fatalf("table must not be created")
		}
	})

	t.Run("missing table is created with order index", func(t *testing.T) {
		f := &fakeTables{describeErr: &types.ResourceNotFoundException{Message: aws.String("missing")}}
		if err := EnsurePaymentAttemptsTable(context.Background(), f, "payment_attempts"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.created == nil || aws.ToString(f.created.TableName) != "payment_attempts" {
			t.Fatalf("expected create table call, got %+v", f.created)
		}
		if len(f.created.GlobalSecondaryIndexes) != 1 || aws.ToString(f.created.GlobalSecondaryIndexes[0].IndexName) != "order_id-index" {
			t.Fatalf("expected order_id-index")
		}
	})

	t.Run("concurrent creation", func(t *testing.T) {
		f := &fakeTables{
			describeErr: &types.ResourceNotFoundException{},
			createErr:   &types.ResourceInUseException{},
		}
		if err := EnsurePaymentAttemptsTable(context.Background(), f, "t"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("describe failure", func(t *testing.T) {
		f := &fakeTables{describeErr: errors.New("network")}
		if err := EnsurePaymentAttemptsTable(context.Background(), f, "t"); err == nil || err.Error() != "network" {
			t.Fatalf("expected network error, got %v", err)
		}
	})
}

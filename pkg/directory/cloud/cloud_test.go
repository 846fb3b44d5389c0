// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cloud

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/connaudit/pkg/directory"
	cerrors "github.com/NVIDIA/connaudit/pkg/errors"
)

// fakeEC2 serves pages keyed by the NextToken of the previous page.
type fakeEC2 struct {
	pages  []*ec2.DescribeInstancesOutput
	failAt int // page index that fails, -1 for none
	err    error
	calls  int
	inputs []*ec2.DescribeInstancesInput
}

func (f *fakeEC2) DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	idx := f.calls
	f.calls++
	f.inputs = append(f.inputs, in)
	if idx == f.failAt {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.pages[idx], nil
}

func instance(ip string, tags ...types.Tag) types.Instance {
	inst := types.Instance{Tags: tags}
	if ip != "" {
		inst.PrivateIpAddress = aws.String(ip)
	}
	return inst
}

func tag(k, v string) types.Tag {
	return types.Tag{Key: aws.String(k), Value: aws.String(v)}
}

func page(next string, instances ...types.Instance) *ec2.DescribeInstancesOutput {
	out := &ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{{Instances: instances}},
	}
	if next != "" {
		out.NextToken = aws.String(next)
	}
	return out
}

func newBuilder(client ec2.DescribeInstancesAPIClient) *Builder {
	return &Builder{
		Region:  "ap-south-1",
		Client:  client,
		Limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func TestBuilder_Build(t *testing.T) {
	client := &fakeEC2{
		failAt: -1,
		pages: []*ec2.DescribeInstancesOutput{
			page("t1",
				instance("10.0.2.5", tag("env", "prod"), tag("Name", "web-prod-2")),
				instance("", tag("Name", "stopped-no-ip")),
			),
			page("",
				instance(" 10.0.2.6 ", tag("Name", "web-prod-3")),
				instance("10.0.2.7"),
				instance("10.0.2.8", tag("Name", "")),
			),
		},
	}

	r := newBuilder(client).Build(context.Background())
	assert.Equal(t, directory.StatusComplete, r.Status)
	assert.NoError(t, r.Cause)
	assert.Equal(t, 2, client.calls)

	d := r.Directory
	assert.Len(t, d, 4)
	assert.Equal(t, "web-prod-2", d["10.0.2.5"].Name)
	assert.Equal(t, directory.SourceCloud, d["10.0.2.5"].Source)
	// raw keys are kept as returned; normalization happens downstream
	assert.Equal(t, "web-prod-3", d[" 10.0.2.6 "].Name)
	assert.Equal(t, UnknownName, d["10.0.2.7"].Name)
	assert.Equal(t, UnknownName, d["10.0.2.8"].Name)

	require.NotEmpty(t, client.inputs)
	assert.Equal(t, int32(500), aws.ToInt32(client.inputs[0].MaxResults))
	assert.Equal(t, "t1", aws.ToString(client.inputs[1].NextToken))
}

func TestBuilder_FirstNameTagWins(t *testing.T) {
	client := &fakeEC2{
		failAt: -1,
		pages: []*ec2.DescribeInstancesOutput{
			page("", instance("10.0.2.5", tag("Name", "first"), tag("Name", "second"))),
		},
	}

	r := newBuilder(client).Build(context.Background())
	assert.Equal(t, "first", r.Directory["10.0.2.5"].Name)
}

func TestBuilder_LaterInstanceOverwrites(t *testing.T) {
	client := &fakeEC2{
		failAt: -1,
		pages: []*ec2.DescribeInstancesOutput{
			page("", instance("10.0.2.5", tag("Name", "old")), instance("10.0.2.5", tag("Name", "new"))),
		},
	}

	r := newBuilder(client).Build(context.Background())
	assert.Equal(t, "new", r.Directory["10.0.2.5"].Name)
}

func TestBuilder_PartialOnFailure(t *testing.T) {
	client := &fakeEC2{
		failAt: 1,
		err:    &smithy.GenericAPIError{Code: "RequestLimitExceeded", Message: "Request limit exceeded."},
		pages: []*ec2.DescribeInstancesOutput{
			page("t1", instance("10.0.2.5", tag("Name", "web-prod-2"))),
		},
	}

	r := newBuilder(client).Build(context.Background())
	assert.True(t, r.IsDegraded())
	assert.Len(t, r.Directory, 1)
	assert.Equal(t, "web-prod-2", r.Directory["10.0.2.5"].Name)

	require.Error(t, r.Cause)
	assert.Equal(t, cerrors.ErrCodeCloudDirectory, cerrors.CodeOf(r.Cause))
	assert.False(t, cerrors.IsFatal(r.Cause))

	var se *cerrors.StructuredError
	require.ErrorAs(t, r.Cause, &se)
	assert.Equal(t, ReasonThrottled, se.Context["reason"])
	assert.Equal(t, 1, se.Context["pages"])
}

func TestBuilder_EmptyOnImmediateFailure(t *testing.T) {
	client := &fakeEC2{
		failAt: 0,
		err:    &smithy.GenericAPIError{Code: "UnauthorizedOperation", Message: "You are not authorized."},
	}

	r := newBuilder(client).Build(context.Background())
	assert.True(t, r.IsDegraded())
	assert.NotNil(t, r.Directory)
	assert.Empty(t, r.Directory)

	var se *cerrors.StructuredError
	require.ErrorAs(t, r.Cause, &se)
	assert.Equal(t, ReasonUnauthorized, se.Context["reason"])
}

func TestBuilder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeEC2{failAt: -1, pages: []*ec2.DescribeInstancesOutput{page("")}}
	b := newBuilder(client)
	b.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)

	r := b.Build(ctx)
	assert.True(t, r.IsDegraded())
	assert.Empty(t, r.Directory)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deadline", context.DeadlineExceeded, ReasonTimeout},
		{"canceled", context.Canceled, ReasonCanceled},
		{"auth", &smithy.GenericAPIError{Code: "AuthFailure"}, ReasonUnauthorized},
		{"expired", &smithy.GenericAPIError{Code: "ExpiredToken"}, ReasonUnauthorized},
		{"throttle", &smithy.GenericAPIError{Code: "Throttling"}, ReasonThrottled},
		{"other api", &smithy.GenericAPIError{Code: "InvalidParameterValue"}, ReasonAPI},
		{"network", errors.New("dial tcp: lookup ec2.ap-south-1.amazonaws.com: no such host"), ReasonUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

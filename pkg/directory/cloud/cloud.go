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
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"golang.org/x/time/rate"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/connaudit/pkg/defaults"
	"github.com/NVIDIA/connaudit/pkg/directory"
	"github.com/NVIDIA/connaudit/pkg/errors"
	"github.com/NVIDIA/connaudit/pkg/logging"
)

const (
	// NameTag is the instance tag holding the display name.
	NameTag = "Name"
	// UnknownName is used for instances without a Name tag.
	UnknownName = "Unknown"
)

// Builder builds the address to instance-name directory from EC2.
type Builder struct {
	// Region scopes the inventory. Empty uses the SDK default chain (AWS_REGION, profile).
	Region string

	// Client is used when set; otherwise one is created from the default config.
	Client ec2.DescribeInstancesAPIClient

	// PageSize is MaxResults per DescribeInstances call. Defaults to defaults.CloudPageSize.
	PageSize int32

	// CallTimeout bounds each page request. Defaults to defaults.CloudAPICallTimeout.
	CallTimeout time.Duration

	// Limiter paces page requests. Defaults to defaults.CloudPagesPerSecond.
	Limiter *rate.Limiter

	Logger *slog.Logger
}

// Build pages through every instance in the region. On any failure the
// mapping accumulated so far is returned in a degraded Result.
func (b *Builder) Build(ctx context.Context) directory.Result {
	log := logging.OrDefault(b.Logger).With(slog.String("source", directory.SourceCloud.String()))
	start := time.Now()
	dir := directory.New()

	client, err := b.getClient(ctx)
	if err != nil {
		return b.degrade(log, dir, err, start, 0)
	}

	limiter := b.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(defaults.CloudPagesPerSecond), 1)
	}

	pageSize := b.PageSize
	if pageSize <= 0 {
		pageSize = defaults.CloudPageSize
	}

	p := ec2.NewDescribeInstancesPaginator(client, &ec2.DescribeInstancesInput{
		MaxResults: aws.Int32(pageSize),
	})

	pages := 0
	for p.HasMorePages() {
		if err := limiter.Wait(ctx); err != nil {
			return b.degrade(log, dir, err, start, pages)
		}

		out, err := b.nextPage(ctx, p)
		if err != nil {
			return b.degrade(log, dir, err, start, pages)
		}
		pages++

		for _, res := range out.Reservations {
			for _, inst := range res.Instances {
				addr := ptr.Deref(inst.PrivateIpAddress, "")
				if addr == "" {
					continue
				}
				dir.Set(addr, instanceName(inst.Tags), directory.SourceCloud)
			}
		}
	}

	log.Info("built cloud identity directory",
		slog.String("region", b.Region),
		slog.Int("entries", len(dir)),
		slog.Int("pages", pages))

	return directory.Complete(directory.SourceCloud, dir, time.Since(start))
}

func (b *Builder) nextPage(ctx context.Context, p *ec2.DescribeInstancesPaginator) (*ec2.DescribeInstancesOutput, error) {
	timeout := b.CallTimeout
	if timeout <= 0 {
		timeout = defaults.CloudAPICallTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.NextPage(cctx)
}

func (b *Builder) degrade(log *slog.Logger, partial directory.Directory, cause error, start time.Time, pages int) directory.Result {
	reason := classify(cause)
	err := errors.WrapWithContext(errors.ErrCodeCloudDirectory, "failed to describe instances", cause,
		map[string]any{
			"region":  b.Region,
			"reason":  reason,
			"pages":   pages,
			"entries": len(partial),
		})

	log.Error("could not fetch instance names, continuing with partial directory",
		slog.String("region", b.Region),
		slog.String("reason", reason),
		slog.Int("entries", len(partial)),
		slog.String("error", cause.Error()))

	return directory.Degraded(directory.SourceCloud, partial, err, time.Since(start))
}

func (b *Builder) getClient(ctx context.Context) (ec2.DescribeInstancesAPIClient, error) {
	if b.Client != nil {
		return b.Client, nil
	}

	opts := []func(*config.LoadOptions) error{}
	if b.Region != "" {
		opts = append(opts, config.WithRegion(b.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return ec2.NewFromConfig(cfg), nil
}

// instanceName returns the value of the first Name tag, or UnknownName when
// the tag is missing or blank.
func instanceName(tags []types.Tag) string {
	for _, t := range tags {
		if ptr.Deref(t.Key, "") != NameTag {
			continue
		}
		if v := ptr.Deref(t.Value, ""); v != "" {
			return v
		}
		return UnknownName
	}
	return UnknownName
}

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
	stderrors "errors"

	"github.com/aws/smithy-go"
)

// Failure reasons recorded on a degraded cloud directory.
const (
	ReasonUnauthorized = "unauthorized"
	ReasonThrottled    = "throttled"
	ReasonTimeout      = "timeout"
	ReasonCanceled     = "canceled"
	ReasonAPI          = "api"
	ReasonUnavailable  = "unavailable"
)

func classify(err error) string {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case stderrors.Is(err, context.Canceled):
		return ReasonCanceled
	}

	var ae smithy.APIError
	if stderrors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "UnauthorizedOperation", "AuthFailure", "InvalidClientTokenId",
			"ExpiredToken", "RequestExpired", "SignatureDoesNotMatch", "OptInRequired":
			return ReasonUnauthorized
		case "RequestLimitExceeded", "Throttling", "ThrottlingException":
			return ReasonThrottled
		default:
			return ReasonAPI
		}
	}
	return ReasonUnavailable
}

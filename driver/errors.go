/*
NAME
  errors.go

DESCRIPTION
  errors.go aliases perr.ErrTaskCanceled as the unexported errCanceled that
  Driver.Run returns on cancellation; callers outside the package match it
  with errors.Is against perr.ErrTaskCanceled.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package driver

import "github.com/ausocean/psxav/perr"

// errCanceled is returned by Run when Cancel reports true (spec.md §7
// TaskCanceled, §5 "Cancellation").
var errCanceled = perr.ErrTaskCanceled

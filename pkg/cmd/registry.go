package cmd

import (
	"log/slog"

	"github.com/crmflow/crmflow/pkg/actions/addnote"
	"github.com/crmflow/crmflow/pkg/actions/addtolist"
	"github.com/crmflow/crmflow/pkg/actions/assignuser"
	"github.com/crmflow/crmflow/pkg/actions/createdeal"
	"github.com/crmflow/crmflow/pkg/actions/createtask"
	"github.com/crmflow/crmflow/pkg/actions/schedulemeeting"
	"github.com/crmflow/crmflow/pkg/actions/sendemail"
	"github.com/crmflow/crmflow/pkg/actions/updatecontact"
	"github.com/crmflow/crmflow/pkg/actions/updatedealstage"
	"github.com/crmflow/crmflow/pkg/protocol"
	"github.com/crmflow/crmflow/pkg/registry"
)

// NewRegistry builds the action registry with every native action type
// registered against the shared dependencies.
func NewRegistry(logger *slog.Logger, deps protocol.Dependencies) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterAction(createtask.NewActionFactory(deps))
	reg.RegisterAction(updatecontact.NewActionFactory(deps))
	reg.RegisterAction(createdeal.NewActionFactory(deps))
	reg.RegisterAction(updatedealstage.NewActionFactory(deps))
	reg.RegisterAction(addnote.NewActionFactory(deps))
	reg.RegisterAction(sendemail.NewActionFactory(deps))
	reg.RegisterAction(schedulemeeting.NewActionFactory(deps))
	reg.RegisterAction(assignuser.NewActionFactory(deps))
	reg.RegisterAction(addtolist.NewActionFactory(deps))

	return reg
}

package gfx

import "github.com/vkngwrapper/core/v2/common"

// CreateFlags indicate specific device behaviors to activate or deactivate
type CreateFlags int32

var createFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// DeviceCreateExternallySynchronized ensures that the device and the objects created from it
	// will not be synchronized internally. The consumer must guarantee that the producer thread is the
	// only thread touching them. Queues stay locked unless submission is also synchronous, since the
	// submission goroutine shares them with the producer.
	DeviceCreateExternallySynchronized CreateFlags = 1 << iota
	// DeviceCreateSynchronousSubmission skips the submission goroutine. Deferred command lists are
	// executed on the producer thread during the frame boundary handshake instead, in the same order
	// the goroutine would have executed them.
	DeviceCreateSynchronousSubmission
	// DeviceCreateValidateAllocators runs the Validate method of every allocator at the end of each
	// frame and fails EndFrame if any of them reports an inconsistency
	DeviceCreateValidateAllocators
)

func init() {
	DeviceCreateExternallySynchronized.Register("DeviceCreateExternallySynchronized")
	DeviceCreateSynchronousSubmission.Register("DeviceCreateSynchronousSubmission")
	DeviceCreateValidateAllocators.Register("DeviceCreateValidateAllocators")
}

package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"taletrail/pkg/discovery"
)

// defaultTTL is how long an instance stays active without a health report.
const defaultTTL = 5 * time.Second

// Registry defines an in-memory service registry.
type Registry struct {
	sync.RWMutex
	serviceAddrs map[string]map[string]*serviceInstance
	ttl          time.Duration
	now          func() time.Time
}

// serviceInstance defines a service instance record in the registry.
type serviceInstance struct {
	hostPort   string
	lastActive time.Time
}

// NewRegistry creates a new in-memory service registry instance.
func NewRegistry() *Registry {
	return &Registry{
		serviceAddrs: make(map[string]map[string]*serviceInstance),
		ttl:          defaultTTL,
		now:          time.Now,
	}
}

// Register creates a service record in the registry.
func (r *Registry) Register(_ context.Context, instanceID string, serviceName string, hostPort string) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.serviceAddrs[serviceName]; !ok {
		r.serviceAddrs[serviceName] = make(map[string]*serviceInstance)
	}
	r.serviceAddrs[serviceName][instanceID] = &serviceInstance{hostPort: hostPort, lastActive: r.now()}
	return nil
}

// Deregister removes a service record from the registry.
func (r *Registry) Deregister(_ context.Context, instanceID string, serviceName string) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.serviceAddrs[serviceName]; !ok {
		return nil
	}
	delete(r.serviceAddrs[serviceName], instanceID)
	return nil
}

// ReportHealthyState is a push mechanism for reporting healthy state to the registry.
func (r *Registry) ReportHealthyState(instanceID string, serviceName string) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.serviceAddrs[serviceName]; !ok {
		return errors.New("service is not registered yet")
	}
	if _, ok := r.serviceAddrs[serviceName][instanceID]; !ok {
		return errors.New("instance " + instanceID + " of service " + serviceName + " is not registered yet")
	}
	r.serviceAddrs[serviceName][instanceID].lastActive = r.now()
	return nil
}

// ServiceAddresses returns the list of addresses of active instances of the given service.
func (r *Registry) ServiceAddresses(_ context.Context, serviceName string) ([]string, error) {
	r.RLock()
	defer r.RUnlock()
	var res []string
	for _, i := range r.serviceAddrs[serviceName] {
		if i.lastActive.Before(r.now().Add(-r.ttl)) {
			continue
		}
		res = append(res, i.hostPort)
	}
	if len(res) == 0 {
		return nil, discovery.ErrNotFound
	}
	return res, nil
}

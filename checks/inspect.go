package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/identityops/idctl/identity"
	"github.com/identityops/idctl/status"
)

// maxSuggestions bounds the similar-resource list on a failed lookup.
const maxSuggestions = 5

// Resource types the inspector understands.
const (
	ResourceUser          = "user"
	ResourceGroup         = "group"
	ResourcePermissionSet = "permission-set"
)

// ErrUnknownResourceType is returned for a resource type outside the
// supported set. It is a caller error, not a degraded status.
var errUnknownResourceType = identity.NewAPIError(identity.KindValidation,
	"inspect", "resource type must be user, group or permission-set")

// ResourceInspector resolves and describes one resource on demand. A
// missing resource is not a failure: the inspector answers with
// Exists=false plus up to five similarly named resources so the caller can
// present next steps.
type ResourceInspector struct {
	opts Options
}

// NewResourceInspector creates the inspector.
func NewResourceInspector(opts Options) *ResourceInspector {
	return &ResourceInspector{opts: opts}
}

// Inspect implements status.Inspector.
func (i *ResourceInspector) Inspect(ctx context.Context, resourceType, resourceID string) (status.ResourceInspectionStatus, error) {
	inst, err := i.opts.instance(ctx)
	if err != nil {
		return status.ResourceInspectionStatus{}, err
	}

	switch resourceType {
	case ResourceUser:
		return i.inspectUser(ctx, inst, resourceID)
	case ResourceGroup:
		return i.inspectGroup(ctx, inst, resourceID)
	case ResourcePermissionSet:
		return i.inspectPermissionSet(ctx, inst, resourceID)
	default:
		return status.ResourceInspectionStatus{}, errUnknownResourceType
	}
}

func (i *ResourceInspector) inspectUser(ctx context.Context, inst identity.Instance, id string) (status.ResourceInspectionStatus, error) {
	user, err := i.opts.Clients.Store.DescribeUser(ctx, inst.IdentityStoreID, id)
	if err != nil {
		if identity.IsNotFound(err) {
			similar, serr := i.similarUsers(ctx, inst, id)
			if serr != nil {
				return status.ResourceInspectionStatus{}, serr
			}
			return missingResource(ResourceUser, id, err, similar), nil
		}
		return status.ResourceInspectionStatus{}, err
	}

	last := user.CreatedDate
	return status.ResourceInspectionStatus{
		Header: status.Header{
			Level:   status.LevelHealthy,
			Message: fmt.Sprintf("user %q found", user.UserName),
		},
		Target: &status.ResourceStatus{
			ID:          user.ID,
			Name:        user.UserName,
			Type:        ResourceUser,
			Exists:      true,
			Status:      "ACTIVE",
			LastUpdated: &last,
			Configuration: map[string]string{
				"display_name": user.DisplayName,
			},
			HealthDetails: map[string]string{
				"identity_store": inst.IdentityStoreID,
			},
		},
	}, nil
}

func (i *ResourceInspector) inspectGroup(ctx context.Context, inst identity.Instance, id string) (status.ResourceInspectionStatus, error) {
	group, err := i.opts.Clients.Store.DescribeGroup(ctx, inst.IdentityStoreID, id)
	if err != nil {
		if identity.IsNotFound(err) {
			similar, serr := i.similarGroups(ctx, inst, id)
			if serr != nil {
				return status.ResourceInspectionStatus{}, serr
			}
			return missingResource(ResourceGroup, id, err, similar), nil
		}
		return status.ResourceInspectionStatus{}, err
	}

	// Membership count is part of the group's health detail.
	members := 0
	token := ""
	for {
		page, next, err := i.opts.Clients.Store.ListGroupMemberships(ctx, inst.IdentityStoreID, group.ID, token)
		if err != nil {
			return status.ResourceInspectionStatus{}, err
		}
		members += len(page)
		if next == "" {
			break
		}
		token = next
	}

	last := group.CreatedDate
	return status.ResourceInspectionStatus{
		Header: status.Header{
			Level:   status.LevelHealthy,
			Message: fmt.Sprintf("group %q found", group.DisplayName),
		},
		Target: &status.ResourceStatus{
			ID:          group.ID,
			Name:        group.DisplayName,
			Type:        ResourceGroup,
			Exists:      true,
			Status:      "ACTIVE",
			LastUpdated: &last,
			Configuration: map[string]string{
				"description": group.Description,
			},
			HealthDetails: map[string]string{
				"member_count": fmt.Sprintf("%d", members),
			},
		},
	}, nil
}

func (i *ResourceInspector) inspectPermissionSet(ctx context.Context, inst identity.Instance, id string) (status.ResourceInspectionStatus, error) {
	var (
		found   *identity.PermissionSet
		similar []string
	)

	token := ""
	for {
		page, next, err := i.opts.Clients.Admin.ListPermissionSets(ctx, inst.InstanceARN, token)
		if err != nil {
			return status.ResourceInspectionStatus{}, err
		}
		for idx, ps := range page {
			if ps.ARN == id || ps.Name == id {
				found = &page[idx]
				break
			}
			if len(similar) < maxSuggestions && fragmentMatch(id, ps.Name, ps.ARN) {
				similar = append(similar, ps.Name)
			}
		}
		if found != nil || next == "" {
			break
		}
		token = next
	}

	if found == nil {
		err := identity.NewAPIError(identity.KindNotFound, "sso.DescribePermissionSet",
			fmt.Sprintf("permission set %q not found", id))
		return missingResource(ResourcePermissionSet, id, err, similar), nil
	}

	last := found.CreatedDate
	return status.ResourceInspectionStatus{
		Header: status.Header{
			Level:   status.LevelHealthy,
			Message: fmt.Sprintf("permission set %q found", found.Name),
		},
		Target: &status.ResourceStatus{
			ID:          found.ARN,
			Name:        found.Name,
			Type:        ResourcePermissionSet,
			Exists:      true,
			Status:      "PROVISIONED",
			LastUpdated: &last,
			Configuration: map[string]string{
				"description": found.Description,
			},
		},
	}, nil
}

func (i *ResourceInspector) similarUsers(ctx context.Context, inst identity.Instance, fragment string) ([]string, error) {
	var similar []string
	token := ""
	for len(similar) < maxSuggestions {
		page, next, err := i.opts.Clients.Store.ListUsers(ctx, inst.IdentityStoreID, token)
		if err != nil {
			return nil, err
		}
		for _, u := range page {
			if len(similar) >= maxSuggestions {
				break
			}
			if fragmentMatch(fragment, u.ID, u.UserName, u.DisplayName) {
				similar = append(similar, u.UserName)
			}
		}
		if next == "" {
			break
		}
		token = next
	}
	return similar, nil
}

func (i *ResourceInspector) similarGroups(ctx context.Context, inst identity.Instance, fragment string) ([]string, error) {
	var similar []string
	token := ""
	for len(similar) < maxSuggestions {
		page, next, err := i.opts.Clients.Store.ListGroups(ctx, inst.IdentityStoreID, token)
		if err != nil {
			return nil, err
		}
		for _, g := range page {
			if len(similar) >= maxSuggestions {
				break
			}
			if fragmentMatch(fragment, g.ID, g.DisplayName) {
				similar = append(similar, g.DisplayName)
			}
		}
		if next == "" {
			break
		}
		token = next
	}
	return similar, nil
}

// missingResource builds the Exists=false answer with suggestions.
func missingResource(resourceType, id string, cause error, similar []string) status.ResourceInspectionStatus {
	message := fmt.Sprintf("%s %q not found", resourceType, id)
	if len(similar) > 0 {
		message = fmt.Sprintf("%s; %d similar resources found", message, len(similar))
	}
	return status.ResourceInspectionStatus{
		Header: status.Header{
			Level:   status.LevelWarning,
			Message: message,
		},
		Target: &status.ResourceStatus{
			ID:           id,
			Type:         resourceType,
			Exists:       false,
			Status:       "NOT_FOUND",
			ErrorMessage: cause.Error(),
		},
		SimilarResources: similar,
	}
}

// fragmentMatch reports whether any candidate starts with or contains the
// fragment, case-insensitively.
func fragmentMatch(fragment string, candidates ...string) bool {
	fragment = strings.ToLower(fragment)
	if fragment == "" {
		return false
	}
	for _, c := range candidates {
		c = strings.ToLower(c)
		if strings.HasPrefix(c, fragment) || strings.Contains(c, fragment) {
			return true
		}
	}
	return false
}

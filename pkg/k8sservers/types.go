// Package k8sservers is the Kubernetes/workflow read-only collaborator: a
// thin pass-through to a controller-runtime client.Client for the
// "/servers" HTTP routes. List/Get/Create/Delete map directly onto
// client.Client calls; no reconciliation loop lives here.
package k8sservers

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the GameServer CRD's group/version.
var GroupVersion = schema.GroupVersion{Group: "ethos-core.dev", Version: "v1"}

// GameServerSpec describes the requested server.
type GameServerSpec struct {
	Project     string `json:"project"`
	BuildConfig string `json:"buildConfig"`
	Platform    string `json:"platform"`
	Map         string `json:"map"`
}

// GameServerStatus reports the remote controller's view of server lifecycle.
type GameServerStatus struct {
	Phase   string `json:"phase"`
	Address string `json:"address"`
}

// GameServer is the minimal CRD type this collaborator manipulates.
type GameServer struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   GameServerSpec   `json:"spec,omitempty"`
	Status GameServerStatus `json:"status,omitempty"`
}

// DeepCopyObject implements runtime.Object.
func (g *GameServer) DeepCopyObject() runtime.Object {
	if g == nil {
		return nil
	}
	out := new(GameServer)
	*out = *g
	out.TypeMeta = g.TypeMeta
	g.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	return out
}

// GameServerList is a list of GameServer.
type GameServerList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []GameServer `json:"items"`
}

// DeepCopyObject implements runtime.Object.
func (l *GameServerList) DeepCopyObject() runtime.Object {
	if l == nil {
		return nil
	}
	out := new(GameServerList)
	out.TypeMeta = l.TypeMeta
	l.ListMeta.DeepCopyInto(&out.ListMeta)
	if l.Items != nil {
		out.Items = make([]GameServer, len(l.Items))
		for i := range l.Items {
			l.Items[i].ObjectMeta.DeepCopyInto(&out.Items[i].ObjectMeta)
			out.Items[i].TypeMeta = l.Items[i].TypeMeta
			out.Items[i].Spec = l.Items[i].Spec
			out.Items[i].Status = l.Items[i].Status
		}
	}
	return out
}

// AddToScheme registers GameServer/GameServerList with scheme.
func AddToScheme(scheme *runtime.Scheme) {
	scheme.AddKnownTypes(GroupVersion, &GameServer{}, &GameServerList{})
	metav1.AddToGroupVersion(scheme, GroupVersion)
}

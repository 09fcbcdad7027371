/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package postgresinstance

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// BuildConnectionSecret creates the superuser connection Secret. The
// password is generated fresh here; the executor only ever creates this
// Secret and never rewrites it, so the credential is stable for the lifetime
// of the instance.
func BuildConnectionSecret(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*corev1.Secret, error) {
	password, err := generatePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	port := instancePort(inst)
	rwHost := fmt.Sprintf("%s.%s.svc.cluster.local", name.ReadWriteService(inst.Name), inst.Namespace)
	roHost := fmt.Sprintf("%s.%s.svc.cluster.local", name.ReadOnlyService(inst.Name), inst.Namespace)
	poolerHost := fmt.Sprintf("%s.%s.svc.cluster.local", name.Pooler(inst.Name), inst.Namespace)

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name.ConnectionSecret(inst.Name),
			Namespace: inst.Namespace,
			Labels:    metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres),
		},
		Type: corev1.SecretTypeOpaque,
		StringData: map[string]string{
			"username":    "postgres",
			"password":    password,
			"host":        rwHost,
			"ro_host":     roHost,
			"pooler_host": poolerHost,
			"port":        fmt.Sprintf("%d", port),
			"uri": fmt.Sprintf(
				"postgresql://postgres:%s@%s:%d/postgres",
				password, rwHost, port,
			),
		},
	}

	if err := ctrl.SetControllerReference(inst, secret, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return secret, nil
}

// generatePassword returns a 128-bit hex-encoded random password.
func generatePassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
